// SPDX-License-Identifier: MPL-2.0

// Package config loads the tool configuration from a CUE file validated
// against an embedded schema, layered over defaults and JHIPSTER_* environment
// variables through Viper.
package config
