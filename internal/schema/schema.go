// SPDX-License-Identifier: MPL-2.0

// Package schema folds the command modules of a resolved dependency set
// into the single argument and flag surface of one command.
package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jhipster/generator-jhipster-sub006/internal/depgraph"
	"github.com/jhipster/generator-jhipster-sub006/internal/namespace"
	"github.com/jhipster/generator-jhipster-sub006/pkg/command"
)

const (
	// HelpFlag is reserved by the CLI and never taken by a generator option.
	HelpFlag = "help"

	negationPrefix = "no-"
)

type (
	// Argument is a positional argument of the command.
	Argument struct {
		Name        string              `json:"name"`
		Description string              `json:"description,omitempty"`
		Type        command.Type        `json:"type"`
		Required    bool                `json:"required,omitempty"`
		Source      namespace.Namespace `json:"source"`
		Blueprint   string              `json:"blueprint,omitempty"`
	}

	// Option is one long flag of the command. Hidden negation mirrors are
	// options too; MirrorOf names the flag they mirror and Name is shared
	// with it, so both parse into the same value.
	Option struct {
		Name        string              `json:"name"`
		Flag        string              `json:"flag"`
		Short       string              `json:"short,omitempty"`
		Description string              `json:"description,omitempty"`
		Type        command.Type        `json:"type"`
		Default     any                 `json:"default,omitempty"`
		Hidden      bool                `json:"hidden,omitempty"`
		Required    bool                `json:"required,omitempty"`
		Env         string              `json:"env,omitempty"`
		Scope       command.Scope       `json:"scope,omitempty"`
		Choices     []string            `json:"choices,omitempty"`
		MirrorOf    string              `json:"mirrorOf,omitempty"`
		Source      namespace.Namespace `json:"source"`
		Blueprint   string              `json:"blueprint,omitempty"`
	}

	// Config is a configuration declaration, kept whether or not it became a flag.
	Config struct {
		Name        string              `json:"name"`
		Description string              `json:"description,omitempty"`
		Scope       command.Scope       `json:"scope,omitempty"`
		Default     any                 `json:"default,omitempty"`
		Choices     []string            `json:"choices,omitempty"`
		Source      namespace.Namespace `json:"source"`
	}

	// Conflict records a declaration that was ignored or adjusted while folding.
	Conflict struct {
		Kind       string              `json:"kind"`
		Name       string              `json:"name"`
		Source     namespace.Namespace `json:"source"`
		Resolution string              `json:"resolution"`
	}

	// Schema is the folded command surface. No two options share a long
	// flag; the first registrant of a flag wins. It is not modified after
	// Build returns.
	Schema struct {
		Command     string     `json:"command"`
		Description string     `json:"description,omitempty"`
		Runner      string     `json:"runner,omitempty"`
		Arguments   []Argument `json:"arguments"`
		Options     []Option   `json:"options"`
		Configs     []Config   `json:"configs"`
		Conflicts   []Conflict `json:"conflicts,omitempty"`

		flags    map[string]int
		shorts   map[string]string
		args     map[string]struct{}
		configs  map[string]struct{}
		variadic bool
		reserved map[string]struct{}
	}

	// BuildOption configures Build.
	BuildOption func(*Schema)
)

// WithReservedFlags keeps names away from generator options, typically the
// CLI's own persistent flags.
func WithReservedFlags(names ...string) BuildOption {
	return func(s *Schema) {
		for _, n := range names {
			s.reserved[n] = struct{}{}
		}
	}
}

// Build folds the modules of set in discovery order. Generators whose
// modules require instantiation are instantiated and their extra
// declarations folded right after their own.
func Build(ctx context.Context, set *depgraph.Set, opts ...BuildOption) (*Schema, error) {
	s := &Schema{
		Arguments: []Argument{},
		Options:   []Option{},
		Configs:   []Config{},
		flags:     make(map[string]int),
		shorts:    make(map[string]string),
		args:      make(map[string]struct{}),
		configs:   make(map[string]struct{}),
		reserved:  map[string]struct{}{HelpFlag: {}},
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, e := range set.Entries() {
		if e.Module == nil {
			continue
		}
		s.fold(e, e.Module)

		if !e.Module.RequiresInstantiation {
			continue
		}
		extra, err := e.Meta.Instantiate(ctx)
		if err != nil {
			if e.Root {
				return nil, err
			}
			slog.Warn("skipping options of generator that failed to instantiate", "namespace", e.Namespace, "error", err)
			continue
		}
		if extra != nil {
			s.fold(e, extra)
		}
	}

	if roots := set.Roots(); len(roots) > 0 {
		s.describe(set, roots[len(roots)-1])
	}
	return s, nil
}

func (s *Schema) describe(set *depgraph.Set, name string) {
	s.Command = name
	runner, ok := set.Runner(name)
	if !ok {
		return
	}
	s.Runner = string(runner)
	e, _ := set.Get(runner)
	if e.Module == nil {
		return
	}
	s.Description = e.Module.Description
	if e.Blueprint != nil && s.Description != "" {
		s.Description += fmt.Sprintf(" (blueprint: %s)", e.Blueprint.Scope())
	}
}

func (s *Schema) fold(e *depgraph.Entry, mod *command.Module) {
	bp := ""
	if e.Blueprint != nil {
		bp = e.Blueprint.Scope()
	}

	for _, a := range mod.Arguments {
		s.addArgument(a, e.Namespace, bp)
	}
	for _, o := range mod.Options {
		s.addOption(o, e.Namespace, bp)
	}
	for _, c := range mod.Configs {
		if _, seen := s.configs[c.Name]; !seen {
			s.configs[c.Name] = struct{}{}
			s.Configs = append(s.Configs, Config{
				Name:        c.Name,
				Description: c.Description,
				Scope:       c.Scope,
				Default:     c.Default,
				Choices:     c.Choices,
				Source:      e.Namespace,
			})
		}
		if o, ok := c.AsOption(); ok {
			s.addOption(o, e.Namespace, bp)
		}
		if a, ok := c.AsArgument(); ok {
			s.addArgument(a, e.Namespace, bp)
		}
	}
}

func (s *Schema) conflict(kind, name string, src namespace.Namespace, resolution string) {
	s.Conflicts = append(s.Conflicts, Conflict{Kind: kind, Name: name, Source: src, Resolution: resolution})
}

// addArgument applies first-wins folding. Nothing is accepted after a
// variadic argument, and a required argument following an optional one is
// made optional so positional parsing stays unambiguous.
func (s *Schema) addArgument(a command.Argument, src namespace.Namespace, bp string) {
	switch {
	case s.variadic:
		s.conflict("argument", a.Name, src, "ignored after variadic argument")
		return
	case hasKey(s.args, a.Name):
		s.conflict("argument", a.Name, src, "ignored duplicate")
		return
	}

	if a.Required && s.hasOptionalArgument() {
		a.Required = false
		s.conflict("argument", a.Name, src, "made optional after optional argument")
	}

	s.args[a.Name] = struct{}{}
	s.variadic = a.Variadic()
	s.Arguments = append(s.Arguments, Argument{
		Name:        a.Name,
		Description: attribute(a.Description, bp),
		Type:        a.Type,
		Required:    a.Required,
		Source:      src,
		Blueprint:   bp,
	})
}

func (s *Schema) hasOptionalArgument() bool {
	for _, a := range s.Arguments {
		if !a.Required {
			return true
		}
	}
	return false
}

// addOption registers o under its kebab-cased flag unless the flag is
// taken. Boolean options get a hidden mirror: "--no-foo" after "--foo", or
// "--foo" before a declared "--no-foo".
func (s *Schema) addOption(o command.Option, src namespace.Namespace, bp string) {
	flag := o.Flag()
	if hasKey(s.reserved, flag) {
		s.conflict("option", flag, src, "ignored reserved flag")
		return
	}
	if _, taken := s.flags[flag]; taken {
		s.conflict("option", flag, src, "ignored duplicate")
		return
	}

	affirmative, negative := strings.CutPrefix(flag, negationPrefix)
	if o.Negatable() && negative {
		s.addMirror(o, affirmative, flag, src, bp)
	}

	opt := Option{
		Name:        o.Name,
		Flag:        flag,
		Description: attributeOption(o.Description, bp),
		Type:        o.Type,
		Default:     o.Default,
		Hidden:      o.Hide,
		Required:    o.Required,
		Env:         o.Env,
		Scope:       o.Scope,
		Choices:     o.Choices,
		Source:      src,
		Blueprint:   bp,
	}
	if o.Alias != "" {
		if owner, taken := s.shorts[o.Alias]; taken {
			s.conflict("alias", o.Alias, src, "ignored, already used by --"+owner)
		} else {
			s.shorts[o.Alias] = flag
			opt.Short = o.Alias
		}
	}
	s.flags[flag] = len(s.Options)
	s.Options = append(s.Options, opt)

	if o.Negatable() && !negative {
		s.addMirror(o, negationPrefix+flag, flag, src, bp)
	}
}

func (s *Schema) addMirror(o command.Option, mirror, of string, src namespace.Namespace, bp string) {
	if hasKey(s.reserved, mirror) {
		return
	}
	if _, taken := s.flags[mirror]; taken {
		return
	}
	s.flags[mirror] = len(s.Options)
	s.Options = append(s.Options, Option{
		Name:        o.Name,
		Flag:        mirror,
		Description: attributeOption(o.Description, bp),
		Type:        command.TypeBoolean,
		Hidden:      true,
		MirrorOf:    of,
		Scope:       o.Scope,
		Source:      src,
		Blueprint:   bp,
	})
}

// Option returns the option registered under flag.
func (s *Schema) Option(flag string) (Option, bool) {
	i, ok := s.flags[flag]
	if !ok {
		return Option{}, false
	}
	return s.Options[i], true
}

// Visible returns the options shown in help text.
func (s *Schema) Visible() []Option {
	var out []Option
	for _, o := range s.Options {
		if !o.Hidden {
			out = append(out, o)
		}
	}
	return out
}

// ArgsRange returns the number of required arguments and the maximum
// argument count, or -1 for no maximum.
func (s *Schema) ArgsRange() (minArgs, maxArgs int) {
	for _, a := range s.Arguments {
		if a.Required {
			minArgs++
		}
	}
	if s.variadic {
		return minArgs, -1
	}
	return minArgs, len(s.Arguments)
}

// UseLine renders the command name with its argument placeholders.
func (s *Schema) UseLine(name string) string {
	var b strings.Builder
	b.WriteString(name)
	for _, a := range s.Arguments {
		placeholder := a.Name
		if a.Variadic() {
			placeholder += "..."
		}
		if a.Required {
			b.WriteString(" <" + placeholder + ">")
		} else {
			b.WriteString(" [" + placeholder + "]")
		}
	}
	return b.String()
}

// Variadic reports whether the argument swallows all remaining positionals.
func (a Argument) Variadic() bool {
	return a.Type == command.TypeArray
}

func attributeOption(desc, bp string) string {
	if bp == "" {
		return desc
	}
	return strings.TrimSpace(desc + fmt.Sprintf(" (blueprint option: %s)", bp))
}

func attribute(desc, bp string) string {
	if bp == "" || desc == "" {
		return desc
	}
	return desc + fmt.Sprintf(" (blueprint: %s)", bp)
}

func hasKey[V any](m map[string]V, k string) bool {
	_, ok := m[k]
	return ok
}
