// SPDX-License-Identifier: MPL-2.0

// Package issue carries user-facing failure context: actionable errors with
// suggestions and a catalog of markdown explanations rendered in the terminal.
package issue
