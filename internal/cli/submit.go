package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Muhammaduzair321/ip-checker/internal/app"
	"github.com/Muhammaduzair321/ip-checker/internal/domain"
	"github.com/Muhammaduzair321/ip-checker/internal/gate"
)

// ErrRejected is returned (exit status 1) when a submission is not accepted.
var ErrRejected = errors.New("submission rejected")

func newSubmitCommand(e *env) *cobra.Command {
	var showList bool
	cmd := &cobra.Command{
		Use:   "submit <ip|domain|url>",
		Short: "Submit one identifier against the configured ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := e.setup()
			if err != nil {
				return err
			}
			c, err := app.Build(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer c.Close()

			res := c.Service.Submit(cmd.Context(), args[0])
			printResult(cmd.OutOrStdout(), res, showList)
			if res.Status != gate.StatusUnique {
				return ErrRejected
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showList, "list", false, "print the recent hosts after submitting")
	return cmd
}

func printResult(w io.Writer, res gate.Result, showList bool) {
	switch res.Status {
	case gate.StatusUnique:
		fmt.Fprintf(w, "%s %s\n", color.GreenString("unique"), res.Canonical)
	case gate.StatusDuplicate:
		fmt.Fprintf(w, "%s %s: already used, pick another one\n", color.RedString("duplicate"), res.Canonical)
	default:
		msg := "store unavailable, try again"
		if res.Reason == gate.ReasonEmpty {
			msg = "nothing to submit"
		}
		fmt.Fprintf(w, "%s %s\n", color.YellowString("error"), msg)
	}

	if showList {
		printHosts(w, res.Hosts)
	}
}

func printHosts(w io.Writer, hosts []string) {
	fmt.Fprintf(w, "last %d accepted (max %d):\n", len(hosts), domain.MaxHosts)
	for i, h := range hosts {
		fmt.Fprintf(w, "%3d  %s\n", i+1, h)
	}
	if len(hosts) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
}
