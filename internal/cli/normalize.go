package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
)

func newNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <input>...",
		Short: "Print the canonical host for each input without submitting it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range args {
				fmt.Fprintln(cmd.OutOrStdout(), domain.Normalize(raw))
			}
			return nil
		},
	}
}
