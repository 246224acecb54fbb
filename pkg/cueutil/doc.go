// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE decoding flow used by generator
// command modules and the tool configuration.
//
// Every caller follows the same three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema definition
//  3. Validate and decode into a Go value
//
// # Usage
//
//	//go:embed command_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[rawModule](
//	    schemaBytes,
//	    data,
//	    "#Command",
//	    cueutil.WithFilename("generators/app/command.cue"),
//	)
//	if err != nil {
//	    return nil, err
//	}
//
// The unified value stays available on the result so callers can recover
// information that decoding into maps loses, such as field declaration order.
package cueutil
