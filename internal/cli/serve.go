package cli

import (
	"github.com/spf13/cobra"

	"github.com/Muhammaduzair321/ip-checker/internal/app"
)

func newServeCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC and HTTP servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := e.setup()
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), cfg, log)
		},
	}
}
