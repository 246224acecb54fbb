// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhipster/generator-jhipster-sub006/internal/engine"
)

func (s *session) newInspectCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect <command>",
		Short: "Show how a command is assembled from generators and blueprints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := s.gens.Prepare(cmd.Context(), s.request(args[0]))
			if err != nil {
				s.app.renderError(err, s.opts.verbose)
				return failed(err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), plan)
			}
			return writePlan(cmd.OutOrStdout(), plan)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the schema and shared configuration as JSON")
	return cmd
}

func writePlan(w io.Writer, plan *engine.Plan) error {
	fmt.Fprintln(w, TitleStyle.Render("Command ")+CmdStyle.Render(plan.Command))
	fmt.Fprintf(w, "runner: %s\n", plan.Runner)

	fmt.Fprintln(w, TitleStyle.Render("\nBlueprints"))
	if len(plan.Blueprints) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("  (none)"))
	}
	for _, bp := range plan.Blueprints {
		fmt.Fprintf(w, "  %s %s\n", bp.Spec(), SubtitleStyle.Render(bp.PackagePath))
	}

	fmt.Fprintln(w, TitleStyle.Render("\nGenerators"))
	for _, e := range plan.Set.Entries() {
		var tags []string
		if e.Root {
			tags = append(tags, "root")
		}
		if e.Blueprint != nil {
			tags = append(tags, "blueprint: "+e.Blueprint.Scope())
		}
		if e.Module != nil && e.Module.OverridesBase {
			tags = append(tags, "overrides base")
		}
		line := "  " + CmdStyle.Render(e.Namespace.String())
		if len(tags) > 0 {
			line += " " + BlueprintStyle.Render("("+strings.Join(tags, ", ")+")")
		}
		if imports := plan.Set.Imports(e.Namespace); len(imports) > 0 {
			names := make([]string, len(imports))
			for i, ns := range imports {
				names[i] = ns.String()
			}
			line += SubtitleStyle.Render(" -> " + strings.Join(names, ", "))
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w, TitleStyle.Render("\nSchema"))
	fmt.Fprint(w, plan.Schema.Summary())

	if len(plan.Shared) > 0 {
		fmt.Fprintln(w, TitleStyle.Render("\nShared configuration"))
		data, err := json.MarshalIndent(plan.Shared, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	}

	if len(plan.Diagnostics) > 0 {
		fmt.Fprintln(w, TitleStyle.Render("\nDiagnostics"))
		renderDiagnostics(w, plan.Diagnostics)
	}
	return nil
}

func writeJSON(w io.Writer, plan *engine.Plan) error {
	out := struct {
		Schema any `json:"schema"`
		Shared any `json:"shared"`
	}{Schema: plan.Schema, Shared: plan.Shared}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
