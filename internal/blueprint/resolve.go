// SPDX-License-Identifier: MPL-2.0

package blueprint

import (
	"strings"
)

const (
	flagBlueprint  = "--blueprint"
	flagBlueprints = "--blueprints"
)

// FromArgs extracts blueprint names declared with --blueprint or
// --blueprints in raw argv. Both "--blueprints a,b" and "--blueprints=a,b"
// are accepted and the flag may repeat. Parsing stops at "--".
// CLI declarations carry no version.
func FromArgs(argv []string) []Descriptor {
	var names []string
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "--" {
			break
		}

		var value string
		switch {
		case arg == flagBlueprint || arg == flagBlueprints:
			if i+1 >= len(argv) {
				continue
			}
			i++
			value = argv[i]
		case strings.HasPrefix(arg, flagBlueprint+"="):
			value = strings.TrimPrefix(arg, flagBlueprint+"=")
		case strings.HasPrefix(arg, flagBlueprints+"="):
			value = strings.TrimPrefix(arg, flagBlueprints+"=")
		default:
			continue
		}

		for part := range strings.SplitSeq(value, ",") {
			if name := NormalizeName(part); name != "" {
				names = append(names, name)
			}
		}
	}

	out := make([]Descriptor, 0, len(names))
	for _, name := range names {
		out = append(out, Descriptor{Name: name})
	}
	return out
}

// Merge combines CLI and persisted declarations. The result follows CLI
// order with persisted-only blueprints appended in persisted order; each
// name appears once. For a name present in both sources the persisted entry
// wins and supplies the version; a CLI version is used only when the
// persisted entry has none.
func Merge(cli, persisted []Descriptor) []Descriptor {
	persistedByName := make(map[string]Descriptor, len(persisted))
	for _, p := range persisted {
		p.Name = NormalizeName(p.Name)
		if _, seen := persistedByName[p.Name]; !seen {
			persistedByName[p.Name] = p
		}
	}

	seen := make(map[string]struct{}, len(cli)+len(persisted))
	out := make([]Descriptor, 0, len(cli)+len(persisted))
	add := func(d Descriptor) {
		if _, dup := seen[d.Name]; dup || d.Name == "" {
			return
		}
		seen[d.Name] = struct{}{}
		out = append(out, d)
	}

	for _, c := range cli {
		c.Name = NormalizeName(c.Name)
		if p, ok := persistedByName[c.Name]; ok {
			if p.Version == "" {
				p.Version = c.Version
			}
			if p.PackagePath == "" {
				p.PackagePath = c.PackagePath
			}
			c = p
		}
		add(c)
	}
	for _, p := range persisted {
		add(persistedByName[NormalizeName(p.Name)])
	}

	return out
}

// Resolve returns the ordered active blueprints of an invocation. It
// performs no I/O and never fails; unknown blueprints surface when located.
func Resolve(argv []string, persisted []Descriptor) []Descriptor {
	return Merge(FromArgs(argv), persisted)
}
