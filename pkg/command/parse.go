// SPDX-License-Identifier: MPL-2.0

package command

import (
	_ "embed"

	"github.com/jhipster/generator-jhipster-sub006/pkg/cueutil"
)

//go:embed command_schema.cue
var schemaBytes []byte

type (
	rawModule struct {
		Description           string                 `json:"description"`
		Arguments             map[string]rawArgument `json:"arguments"`
		Options               map[string]rawOption   `json:"options"`
		Configs               map[string]rawConfig   `json:"configs"`
		Imports               []string               `json:"imports"`
		OverridesBase         bool                   `json:"overrides_base"`
		RequiresInstantiation bool                   `json:"requires_instantiation"`
	}

	rawArgument struct {
		Description string `json:"description"`
		Type        Type   `json:"type"`
		Required    bool   `json:"required"`
	}

	rawOption struct {
		Description string   `json:"description"`
		Type        Type     `json:"type"`
		Alias       string   `json:"alias"`
		Default     any      `json:"default"`
		Hide        bool     `json:"hide"`
		Required    bool     `json:"required"`
		Env         string   `json:"env"`
		Scope       Scope    `json:"scope"`
		Choices     []string `json:"choices"`
	}

	rawConfig struct {
		Description string       `json:"description"`
		CLI         *rawCLI      `json:"cli"`
		Argument    *rawArgument `json:"argument"`
		Scope       Scope        `json:"scope"`
		Default     any          `json:"default"`
		Choices     []string     `json:"choices"`
	}

	rawCLI struct {
		Type     Type   `json:"type"`
		Alias    string `json:"alias"`
		Hide     bool   `json:"hide"`
		Required bool   `json:"required"`
		Env      string `json:"env"`
	}
)

// Parse decodes a command.cue document. The path is used in error messages only.
func Parse(data []byte, path string) (*Module, error) {
	result, err := cueutil.ParseAndDecode[rawModule](schemaBytes, data, "#Command", cueutil.WithFilename(path))
	if err != nil {
		return nil, &InvalidModuleError{Path: path, Cause: err}
	}
	raw := result.Value

	mod := &Module{
		Description:           raw.Description,
		Imports:               raw.Imports,
		OverridesBase:         raw.OverridesBase,
		RequiresInstantiation: raw.RequiresInstantiation,
	}

	for name := range cueutil.FieldNames(result.Unified, "arguments") {
		a := raw.Arguments[name]
		mod.Arguments = append(mod.Arguments, Argument{
			Name:        name,
			Description: a.Description,
			Type:        a.Type,
			Required:    a.Required,
		})
	}

	for name := range cueutil.FieldNames(result.Unified, "options") {
		o := raw.Options[name]
		mod.Options = append(mod.Options, Option{
			Name:        name,
			Description: o.Description,
			Type:        o.Type,
			Alias:       o.Alias,
			Default:     o.Default,
			Hide:        o.Hide,
			Required:    o.Required,
			Env:         o.Env,
			Scope:       o.Scope,
			Choices:     o.Choices,
		})
	}

	for name := range cueutil.FieldNames(result.Unified, "configs") {
		c := raw.Configs[name]
		cfg := Config{
			Name:        name,
			Description: c.Description,
			Scope:       c.Scope,
			Default:     c.Default,
			Choices:     c.Choices,
		}
		if c.CLI != nil {
			cfg.CLI = &ConfigCLI{Type: c.CLI.Type, Alias: c.CLI.Alias, Hide: c.CLI.Hide, Required: c.CLI.Required, Env: c.CLI.Env}
		}
		if c.Argument != nil {
			cfg.Argument = &ConfigArgument{Type: c.Argument.Type, Required: c.Argument.Required}
		}
		mod.Configs = append(mod.Configs, cfg)
	}

	return mod, nil
}
