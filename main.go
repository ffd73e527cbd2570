package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"moviesearch/internal/cli"
)

func main() {
	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	code := cli.Execute(ctx, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
