// SPDX-License-Identifier: MPL-2.0

// Package sharedconfig assembles the shared key/value configuration that
// blueprints contribute for values not exposed as flags.
package sharedconfig

import (
	"reflect"
	"slices"
)

// Config is a shared configuration object.
type Config map[string]any

// Join combines the existing value of a key with an incoming one. present
// is false when the key has no existing value.
//
//   - no existing value: incoming
//   - both sequences: existing followed by incoming
//   - existing sequence only: incoming appended
//   - incoming sequence only: existing prepended
//   - neither: the pair [existing, incoming]
//
// Join is not commutative.
func Join(existing any, incoming any, present bool) any {
	if !present {
		return incoming
	}

	ex, exSeq := asSequence(existing)
	in, inSeq := asSequence(incoming)
	switch {
	case exSeq && inSeq:
		return append(slices.Clone(ex), in...)
	case exSeq:
		return append(slices.Clone(ex), incoming)
	case inSeq:
		return append([]any{existing}, in...)
	default:
		return []any{existing, incoming}
	}
}

// Merge joins every top-level key of incoming into acc and returns acc.
// A nil acc is allocated.
func Merge(acc, incoming Config) Config {
	if acc == nil {
		acc = make(Config, len(incoming))
	}
	for _, key := range sortedKeys(incoming) {
		existing, present := acc[key]
		acc[key] = Join(existing, incoming[key], present)
	}
	return acc
}

// asSequence returns v as []any when it is a slice or array other than a byte string.
func asSequence(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func sortedKeys(c Config) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
