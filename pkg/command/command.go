// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// FileName is the marker file declaring a generator's command module.
const FileName = "command.cue"

const (
	// TypeBoolean is a flag without a value.
	TypeBoolean Type = "boolean"
	// TypeString takes a single string value.
	TypeString Type = "string"
	// TypeNumber takes a numeric value.
	TypeNumber Type = "number"
	// TypeArray takes repeated or comma-separated values. For arguments it marks a variadic argument.
	TypeArray Type = "array"

	// ScopeStorage values are persisted in the project configuration.
	ScopeStorage Scope = "storage"
	// ScopeBlueprint values are persisted per blueprint.
	ScopeBlueprint Scope = "blueprint"
	// ScopeGenerator values live on the generator instance.
	ScopeGenerator Scope = "generator"
	// ScopeContext values live in the shared application context.
	ScopeContext Scope = "context"
	// ScopeNone values are never materialized as flags on their own.
	ScopeNone Scope = "none"
)

// ErrInvalidModule is the sentinel wrapped by every decoding failure of a command module.
var ErrInvalidModule = errors.New("invalid command module")

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

type (
	// Type is the value type of an argument, option or config.
	Type string

	// Scope tells where the generator stores a value.
	Scope string

	// Module is the read-only command declaration of one generator.
	Module struct {
		Description string
		Arguments   []Argument
		Options     []Option
		Configs     []Config
		// Imports lists the namespaces whose declarations are folded into this command.
		Imports []string
		// OverridesBase suppresses the base generator of the same name when set on a blueprint generator.
		OverridesBase bool
		// RequiresInstantiation marks modules whose full surface is only known after instantiating the generator.
		RequiresInstantiation bool
	}

	// Argument is a positional argument declaration.
	Argument struct {
		Name        string
		Description string
		Type        Type
		Required    bool
	}

	// Option is a flag declaration. Name is the declared key; Flag derives the long flag from it.
	Option struct {
		Name        string
		Description string
		Type        Type
		Alias       string
		Default     any
		Hide        bool
		Required    bool
		Env         string
		Scope       Scope
		Choices     []string
	}

	// Config is a configuration declaration that may surface as an option or an argument.
	Config struct {
		Name        string
		Description string
		CLI         *ConfigCLI
		Argument    *ConfigArgument
		Scope       Scope
		Default     any
		Choices     []string
	}

	// ConfigCLI describes the flag form of a config.
	ConfigCLI struct {
		Type     Type
		Alias    string
		Hide     bool
		Required bool
		Env      string
	}

	// ConfigArgument describes the positional form of a config.
	ConfigArgument struct {
		Type     Type
		Required bool
	}

	// InvalidModuleError reports a command.cue file that failed schema validation.
	InvalidModuleError struct {
		Path  string
		Cause error
	}
)

// Error implements the error interface.
func (e *InvalidModuleError) Error() string {
	return fmt.Sprintf("invalid command module %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrInvalidModule so callers can match with errors.Is,
// while the CUE detail stays reachable through errors.As on Cause.
func (e *InvalidModuleError) Unwrap() []error {
	return []error{ErrInvalidModule, e.Cause}
}

// Variadic reports whether the argument swallows all remaining positionals.
func (a Argument) Variadic() bool {
	return a.Type == TypeArray
}

// Flag returns the long flag name, the kebab-cased declared key.
func (o Option) Flag() string {
	return KebabCase(o.Name)
}

// Negatable reports whether the option gets a boolean negation mirror.
func (o Option) Negatable() bool {
	return o.Type == TypeBoolean && !o.Required
}

// AsOption returns the flag form of a config, if it has one.
func (c Config) AsOption() (Option, bool) {
	if c.CLI == nil {
		return Option{}, false
	}
	return Option{
		Name:        c.Name,
		Description: c.Description,
		Type:        c.CLI.Type,
		Alias:       c.CLI.Alias,
		Default:     c.Default,
		Hide:        c.CLI.Hide,
		Required:    c.CLI.Required,
		Env:         c.CLI.Env,
		Scope:       c.Scope,
		Choices:     c.Choices,
	}, true
}

// AsArgument returns the positional form of a config, if it has one.
func (c Config) AsArgument() (Argument, bool) {
	if c.Argument == nil {
		return Argument{}, false
	}
	return Argument{
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Argument.Type,
		Required:    c.Argument.Required,
	}, true
}

// IsEmpty reports whether the module declares nothing at all.
func (m *Module) IsEmpty() bool {
	return m == nil || (m.Description == "" && len(m.Arguments) == 0 && len(m.Options) == 0 &&
		len(m.Configs) == 0 && len(m.Imports) == 0 && !m.OverridesBase && !m.RequiresInstantiation)
}

// KebabCase converts a declared key such as "skipClient" or "skip_client"
// into the long flag form "skip-client".
func KebabCase(key string) string {
	s := camelBoundary.ReplaceAllString(key, "${1}-${2}")
	s = strings.ReplaceAll(s, "_", "-")
	return strings.ToLower(s)
}
