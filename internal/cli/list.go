package cli

import (
	"github.com/spf13/cobra"

	"github.com/Muhammaduzair321/ip-checker/internal/app"
)

func newListCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the recent hosts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := e.setup()
			if err != nil {
				return err
			}
			c, err := app.Build(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer c.Close()

			printHosts(cmd.OutOrStdout(), c.Service.Recent())
			return nil
		},
	}
}
