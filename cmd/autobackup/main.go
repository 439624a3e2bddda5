// Package main is the entry point for the autobackup CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/thoreinstein/autobackup/cmd/autobackup/commands"
	"github.com/thoreinstein/autobackup/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.ExecuteContext(ctx)
	stop()

	errors.Print(os.Stderr, err)
	os.Exit(errors.ExitCode(err))
}
