// SPDX-License-Identifier: MPL-2.0

// Package engine prepares a generator command for execution.
//
// Preparing a command resolves the active blueprints from the command line
// and the project configuration, locates their packages, discovers every
// generator contributing to the command, folds their declarations into one
// schema and assembles the shared configuration. Fatal problems abort
// preparation; everything else is reported as a Diagnostic.
package engine
