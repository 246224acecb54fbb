// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (s *session) newNamespacesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "namespaces",
		Short: "List registered generator namespaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nss, err := s.gens.Namespaces(cmd.Context(), s.request(""))
			if err != nil {
				s.app.renderError(err, s.opts.verbose)
				return failed(err)
			}
			for _, ns := range nss {
				fmt.Fprintln(cmd.OutOrStdout(), ns.String())
			}
			return nil
		},
	}
}
