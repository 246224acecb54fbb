// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	t.Parallel()

	src := `
description: "Generate a new application"
arguments: {
	baseName: {description: "Application name"}
	extra: {type: "array"}
}
options: {
	skipInstall: {type: "boolean", description: "Skip install", default: false}
	"client-framework": {type: "string", alias: "c", choices: ["angular", "react"], env: "JHI_CLIENT"}
	authType: {type: "string", default: "jwt"}
}
configs: {
	prettierTabWidth: {cli: {type: "number"}, default: 2, scope: "storage"}
	entities: {argument: {type: "array"}}
	sharedLangs: {scope: "none"}
}
imports: ["bootstrap", "jhipster:common"]
overrides_base: true
`

	mod, err := Parse([]byte(src), "generators/app/command.cue")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := &Module{
		Description: "Generate a new application",
		Arguments: []Argument{
			{Name: "baseName", Description: "Application name", Type: TypeString},
			{Name: "extra", Type: TypeArray},
		},
		Options: []Option{
			{Name: "skipInstall", Description: "Skip install", Type: TypeBoolean, Default: false},
			{Name: "client-framework", Type: TypeString, Alias: "c", Choices: []string{"angular", "react"}, Env: "JHI_CLIENT"},
			{Name: "authType", Type: TypeString, Default: "jwt"},
		},
		Configs: []Config{
			{Name: "prettierTabWidth", CLI: &ConfigCLI{Type: TypeNumber}, Default: 2, Scope: ScopeStorage},
			{Name: "entities", Argument: &ConfigArgument{Type: TypeArray}},
			{Name: "sharedLangs", Scope: ScopeNone},
		},
		Imports:       []string{"bootstrap", "jhipster:common"},
		OverridesBase: true,
	}

	if diff := cmp.Diff(want, mod); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	mod, err := Parse(nil, "command.cue")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !mod.IsEmpty() {
		t.Errorf("Parse(empty) = %+v, want empty module", mod)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"unknown option type", `options: foo: {type: "date"}`},
		{"unknown top-level field", `aliases: ["x"]`},
		{"bad env name", `options: foo: {type: "string", env: "lower"}`},
		{"long alias", `options: foo: {type: "string", alias: "fo"}`},
		{"empty import", `imports: [""]`},
		{"syntax error", `options: {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.src), "command.cue")
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			if !errors.Is(err, ErrInvalidModule) {
				t.Errorf("Parse() error = %v, want ErrInvalidModule", err)
			}
			var invalid *InvalidModuleError
			if !errors.As(err, &invalid) || invalid.Path != "command.cue" {
				t.Errorf("Parse() error = %v, want *InvalidModuleError with path", err)
			}
		})
	}
}

func TestKebabCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"skipInstall", "skip-install"},
		{"skip-install", "skip-install"},
		{"skip_install", "skip-install"},
		{"noInstall", "no-install"},
		{"db", "db"},
		{"prettierTabWidth", "prettier-tab-width"},
		{"http2Enabled", "http2-enabled"},
	}

	for _, tt := range tests {
		if got := KebabCase(tt.in); got != tt.want {
			t.Errorf("KebabCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfigForms(t *testing.T) {
	t.Parallel()

	c := Config{
		Name:     "baseName",
		CLI:      &ConfigCLI{Type: TypeString, Alias: "n"},
		Argument: &ConfigArgument{Type: TypeString, Required: true},
		Default:  "jhipster",
		Scope:    ScopeStorage,
	}

	opt, ok := c.AsOption()
	if !ok || opt.Flag() != "base-name" || opt.Alias != "n" || opt.Default != "jhipster" {
		t.Errorf("AsOption() = %+v, %v", opt, ok)
	}

	arg, ok := c.AsArgument()
	if !ok || !arg.Required || arg.Variadic() {
		t.Errorf("AsArgument() = %+v, %v", arg, ok)
	}

	if _, ok := (Config{Name: "x", Scope: ScopeNone}).AsOption(); ok {
		t.Error("AsOption() on a none-scoped config without cli should be false")
	}
}

func TestOption_Negatable(t *testing.T) {
	t.Parallel()

	if !(Option{Type: TypeBoolean}).Negatable() {
		t.Error("boolean option should be negatable")
	}
	if (Option{Type: TypeBoolean, Required: true}).Negatable() {
		t.Error("required boolean option should not be negatable")
	}
	if (Option{Type: TypeString}).Negatable() {
		t.Error("string option should not be negatable")
	}
}
