// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the jhipster command line.
//
// Generator commands are not known in advance: the invoked command name is
// pre-scanned from the arguments, prepared by the engine, and bound to a
// cobra command built from the resulting schema. Every other invocable
// generator is registered as a stub so help output lists it.
package cmd
