// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jhipster/generator-jhipster-sub006/pkg/command"
)

// ErrInvalidChoice is the sentinel wrapped by InvalidChoiceError.
var ErrInvalidChoice = errors.New("invalid choice")

type (
	// Values reads parsed option and argument values of a bound schema.
	// Precedence is flag, then environment variable, then declared default.
	Values struct {
		schema *Schema
		flags  *pflag.FlagSet
		env    *viper.Viper
		bools  map[string]*boolState
		bound  map[string]bool
		args   []string
	}

	// InvalidChoiceError reports a value outside an option's declared choices.
	InvalidChoiceError struct {
		Flag    string
		Value   string
		Choices []string
	}

	boolState struct {
		value bool
		set   bool
	}

	// boolFlag is one side of a negatable boolean pair. Both sides write the
	// same state; the mirror side inverts what it is given.
	boolFlag struct {
		state  *boolState
		invert bool
	}
)

// Error implements the error interface.
func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("invalid value %q for --%s (choose from %s)", e.Value, e.Flag, strings.Join(e.Choices, ", "))
}

// Unwrap returns ErrInvalidChoice for errors.Is() compatibility.
func (e *InvalidChoiceError) Unwrap() error {
	return ErrInvalidChoice
}

func (b *boolFlag) String() string {
	if b.state == nil {
		return "false"
	}
	return strconv.FormatBool(b.state.value != b.invert)
}

func (b *boolFlag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.state.value = v != b.invert
	b.state.set = true
	return nil
}

func (b *boolFlag) Type() string {
	return "bool"
}

// Bind registers the schema's flags on cmd in schema order and sets its
// positional argument validator. Flags already defined on cmd or inherited
// from its parents are skipped.
func (s *Schema) Bind(cmd *cobra.Command) *Values {
	vals := &Values{
		schema: s,
		flags:  cmd.Flags(),
		env:    viper.New(),
		bools:  make(map[string]*boolState),
		bound:  make(map[string]bool),
	}
	fs := cmd.Flags()

	for _, o := range s.Options {
		if flagTaken(cmd, o.Flag) {
			slog.Debug("flag already defined, skipping", "flag", o.Flag, "source", o.Source)
			continue
		}
		short := o.Short
		if short != "" && shortTaken(cmd, short) {
			short = ""
		}
		usage := o.Description
		if len(o.Choices) > 0 {
			usage = strings.TrimSpace(usage + " [" + strings.Join(o.Choices, ", ") + "]")
		}

		var f *pflag.Flag
		switch o.Type {
		case command.TypeBoolean:
			state, ok := vals.bools[o.Name]
			if !ok {
				def := o.Default
				if declared, found := s.Option(o.MirrorOf); o.MirrorOf != "" && found {
					def = declared.Default
				}
				state = &boolState{value: toBool(def)}
				vals.bools[o.Name] = state
			}
			f = fs.VarPF(&boolFlag{state: state, invert: o.MirrorOf != ""}, o.Flag, short, usage)
			f.NoOptDefVal = "true"
		case command.TypeNumber:
			fs.Float64P(o.Flag, short, toFloat(o.Default), usage)
			f = fs.Lookup(o.Flag)
		case command.TypeArray:
			fs.StringSliceP(o.Flag, short, toStrings(o.Default), usage)
			f = fs.Lookup(o.Flag)
		default:
			fs.StringP(o.Flag, short, toString(o.Default), usage)
			f = fs.Lookup(o.Flag)
		}
		f.Hidden = o.Hidden

		if o.Required {
			_ = cmd.MarkFlagRequired(o.Flag)
		}
		if o.Env != "" && o.MirrorOf == "" {
			_ = vals.env.BindEnv(envKey(o.Name), o.Env)
		}
		if o.MirrorOf == "" {
			vals.bound[o.Name] = true
		}
	}

	minArgs, maxArgs := s.ArgsRange()
	if maxArgs < 0 {
		cmd.Args = cobra.MinimumNArgs(minArgs)
	} else {
		cmd.Args = cobra.RangeArgs(minArgs, maxArgs)
	}
	return vals
}

func flagTaken(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Lookup(name) != nil || cmd.PersistentFlags().Lookup(name) != nil {
		return true
	}
	for p := cmd.Parent(); p != nil; p = p.Parent() {
		if p.PersistentFlags().Lookup(name) != nil {
			return true
		}
	}
	return false
}

func shortTaken(cmd *cobra.Command, short string) bool {
	if cmd.Flags().ShorthandLookup(short) != nil || cmd.PersistentFlags().ShorthandLookup(short) != nil {
		return true
	}
	for p := cmd.Parent(); p != nil; p = p.Parent() {
		if p.PersistentFlags().ShorthandLookup(short) != nil {
			return true
		}
	}
	return false
}

// SetArgs records the positional arguments received by the command.
func (v *Values) SetArgs(args []string) {
	v.args = slices.Clone(args)
}

// Get returns the value of the option declared as name.
func (v *Values) Get(name string) (any, bool) {
	opt, ok := v.declared(name)
	if !ok || !v.bound[name] {
		return nil, false
	}

	if opt.Type == command.TypeBoolean {
		state := v.bools[name]
		switch {
		case state.set:
			return state.value, true
		case v.env.IsSet(envKey(name)):
			return v.env.GetBool(envKey(name)), true
		case opt.Default != nil:
			return toBool(opt.Default), true
		}
		return nil, false
	}

	if f := v.flags.Lookup(opt.Flag); f != nil && f.Changed {
		switch opt.Type {
		case command.TypeNumber:
			n, _ := v.flags.GetFloat64(opt.Flag)
			return n, true
		case command.TypeArray:
			ss, _ := v.flags.GetStringSlice(opt.Flag)
			return ss, true
		default:
			return f.Value.String(), true
		}
	}

	if v.env.IsSet(envKey(name)) {
		switch opt.Type {
		case command.TypeNumber:
			return v.env.GetFloat64(envKey(name)), true
		case command.TypeArray:
			return strings.Split(v.env.GetString(envKey(name)), ","), true
		default:
			return v.env.GetString(envKey(name)), true
		}
	}

	if opt.Default != nil {
		return opt.Default, true
	}
	return nil, false
}

// Bool returns a boolean option value, false when unset.
func (v *Values) Bool(name string) bool {
	val, _ := v.Get(name)
	b, _ := val.(bool)
	return b
}

// String returns a string option value, empty when unset.
func (v *Values) String(name string) string {
	val, ok := v.Get(name)
	if !ok {
		return ""
	}
	return toString(val)
}

// Float returns a number option value, zero when unset.
func (v *Values) Float(name string) float64 {
	val, _ := v.Get(name)
	return toFloat(val)
}

// Strings returns an array option value.
func (v *Values) Strings(name string) []string {
	val, _ := v.Get(name)
	return toStrings(val)
}

// Map returns every option that has a value, keyed by declared name.
func (v *Values) Map() map[string]any {
	out := make(map[string]any)
	for _, o := range v.schema.Options {
		if o.MirrorOf != "" {
			continue
		}
		if val, ok := v.Get(o.Name); ok {
			out[o.Name] = val
		}
	}
	return out
}

// Args maps argument names to the received positionals. A variadic
// argument receives a slice of the remaining values.
func (v *Values) Args() map[string]any {
	out := make(map[string]any)
	for i, a := range v.schema.Arguments {
		if i >= len(v.args) {
			break
		}
		if a.Variadic() {
			out[a.Name] = slices.Clone(v.args[i:])
			break
		}
		out[a.Name] = v.args[i]
	}
	return out
}

// Validate checks option values against their declared choices.
func (v *Values) Validate() error {
	for _, o := range v.schema.Options {
		if o.MirrorOf != "" || len(o.Choices) == 0 {
			continue
		}
		val, ok := v.Get(o.Name)
		if !ok {
			continue
		}
		var given []string
		switch x := val.(type) {
		case []string:
			given = x
		default:
			given = []string{toString(x)}
		}
		for _, g := range given {
			if !slices.Contains(o.Choices, g) {
				return &InvalidChoiceError{Flag: o.Flag, Value: g, Choices: o.Choices}
			}
		}
	}
	return nil
}

func (v *Values) declared(name string) (Option, bool) {
	for _, o := range v.schema.Options {
		if o.Name == name && o.MirrorOf == "" {
			return o, true
		}
	}
	return Option{}, false
}

func envKey(name string) string {
	return "opt." + strings.ToLower(name)
}

func toBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(x)
		return b
	}
	return false
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	case string:
		f, _ := strconv.ParseFloat(x, 64)
		return f
	}
	return 0
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func toStrings(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, toString(e))
		}
		return out
	}
	return []string{toString(v)}
}
