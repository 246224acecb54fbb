// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Summary renders the schema as stable plain text, one declaration per line.
func (s *Schema) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "command: %s\n", s.Command)
	if s.Runner != "" {
		fmt.Fprintf(&b, "runner: %s\n", s.Runner)
	}
	if s.Description != "" {
		fmt.Fprintf(&b, "description: %s\n", s.Description)
	}

	b.WriteString("arguments:\n")
	for _, a := range s.Arguments {
		req := "optional"
		if a.Required {
			req = "required"
		}
		fmt.Fprintf(&b, "  %s %s %s (%s)\n", a.Name, a.Type, req, a.Source)
	}

	b.WriteString("options:\n")
	for _, o := range s.Options {
		fmt.Fprintf(&b, "  --%s", o.Flag)
		if o.Short != "" {
			fmt.Fprintf(&b, ", -%s", o.Short)
		}
		fmt.Fprintf(&b, " %s", o.Type)
		if o.Default != nil {
			fmt.Fprintf(&b, " default=%v", o.Default)
		}
		if o.Required {
			b.WriteString(" required")
		}
		if o.Hidden {
			b.WriteString(" hidden")
		}
		if o.MirrorOf != "" {
			fmt.Fprintf(&b, " mirror-of=%s", o.MirrorOf)
		}
		if o.Env != "" {
			fmt.Fprintf(&b, " env=%s", o.Env)
		}
		fmt.Fprintf(&b, " (%s)\n", o.Source)
	}

	b.WriteString("configs:\n")
	for _, c := range s.Configs {
		scope := string(c.Scope)
		if scope == "" {
			scope = "-"
		}
		fmt.Fprintf(&b, "  %s %s (%s)\n", c.Name, scope, c.Source)
	}

	return b.String()
}

// MarshalIndent renders the schema as indented JSON.
func (s *Schema) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
