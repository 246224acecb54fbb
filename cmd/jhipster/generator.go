// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jhipster/generator-jhipster-sub006/internal/engine"
)

// newGeneratorCommand builds the cobra command of a prepared plan.
func (s *session) newGeneratorCommand(plan *engine.Plan) *cobra.Command {
	sch := plan.Schema
	cmd := &cobra.Command{
		Use:          sch.UseLine(plan.Command),
		Short:        sch.Description,
		SilenceUsage: true,
	}
	values := sch.Bind(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		values.SetArgs(args)
		if err := values.Validate(); err != nil {
			return err
		}
		if s.opts.verbose {
			renderDiagnostics(cmd.ErrOrStderr(), plan.Diagnostics)
		}
		return s.app.Runner.Run(cmd.Context(), plan, values, cmd.OutOrStdout())
	}
	return cmd
}
