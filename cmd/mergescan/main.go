package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mergescan/internal/cli"
)

func main() {
	// Cancellation is external only: Ctrl+C / SIGTERM stops after the
	// in-flight external call returns.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
