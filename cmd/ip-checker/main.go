package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Muhammaduzair321/ip-checker/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		if !errors.Is(err, cli.ErrRejected) {
			fmt.Fprintf(os.Stderr, "ip-checker: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
