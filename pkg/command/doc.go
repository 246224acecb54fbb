// SPDX-License-Identifier: MPL-2.0

// Package command defines the declaration a generator publishes about its
// command-line surface and parses it from a command.cue file.
//
// A generator directory may contain a command.cue file:
//
//	description: "Generate a new application"
//	arguments: baseName: {type: "string"}
//	options: skipInstall: {type: "boolean", description: "Do not install dependencies", default: false}
//	configs: clientFramework: {cli: {type: "string"}, choices: ["angular", "react", "vue"], scope: "storage"}
//	imports: ["bootstrap", "jhipster:common"]
//	overrides_base: false
//
// Every field is optional. Declaration order of arguments, options and
// configs is preserved.
package command
