package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/pathwaygen/internal/app"
	"github.com/specialistvlad/pathwaygen/internal/cli"
)

// main is the entrypoint for the pathwaygen application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Args[1:])
	stop()

	if err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
		} else {
			slog.Error("Pathway data generation failed.", "error", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) error {
	if err := cli.LoadEnvFile(cli.DefaultEnvFile); err != nil {
		return err
	}

	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	pathwayApp, err := app.NewApp(outW, appConfig)
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	return pathwayApp.Run(ctx)
}
