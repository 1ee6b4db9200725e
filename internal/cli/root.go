// Package cli is the ip-checker command line: a server mode and one-shot
// commands that share the server's configuration.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Muhammaduzair321/ip-checker/internal/config"
	"github.com/Muhammaduzair321/ip-checker/internal/logger"
)

type env struct {
	loadConfig func() (config.Config, error)
	logOut     io.Writer
}

// NewRootCommand wires all subcommands. Configuration comes from
// IPCHECKER_* environment variables.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&env{loadConfig: config.Load, logOut: os.Stderr})
}

func newRootCommand(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "ip-checker",
		Short:         "Accept IPs, domains and URLs once while they are in the recent-hosts ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(e),
		newSubmitCommand(e),
		newNormalizeCommand(),
		newListCommand(e),
	)
	return root
}

func (e *env) setup() (config.Config, logger.Logger, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Output: e.logOut})
	return cfg, log, nil
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
