// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhipster/generator-jhipster-sub006/internal/config"
)

func (s *session) newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the tool configuration",
		Long: `Inspect the tool configuration.

Configuration is read from config.cue in the user config directory
(for example ~/.config/jhipster/config.cue) and can be overridden with
JHIPSTER_* environment variables, e.g. JHIPSTER_INSTALL_TIMEOUT=1m.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
			source := s.cfg.Source
			if source == "" {
				source = "built-in defaults"
			}
			fmt.Fprintln(w, SubtitleStyle.Render("// source: "+source))
			fmt.Fprintln(w)
			fmt.Fprint(w, config.GenerateCUE(s.cfg))
			return nil
		},
	})

	return cfgCmd
}
