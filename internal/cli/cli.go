package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/specialistvlad/pathwaygen/internal/app"
	"github.com/specialistvlad/pathwaygen/internal/notify"
)

// Environment variables that provide flag defaults.
const (
	EnvDataDir       = "PATHWAYGEN_DATA_DIR"
	EnvOutDir        = "PATHWAYGEN_OUT_DIR"
	EnvPathway       = "PATHWAYGEN_PATHWAY"
	EnvLogFormat     = "PATHWAYGEN_LOG_FORMAT"
	EnvLogLevel      = "PATHWAYGEN_LOG_LEVEL"
	EnvPrune         = "PATHWAYGEN_PRUNE"
	EnvStrict        = "PATHWAYGEN_STRICT"
	EnvNotifyURL     = "PATHWAYGEN_NOTIFY_URL"
	EnvNotifyEvent   = "PATHWAYGEN_NOTIFY_EVENT"
	EnvNotifyTimeout = "PATHWAYGEN_NOTIFY_TIMEOUT"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// LookupEnvFunc matches os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// Parse processes command-line arguments, using the process environment for
// defaults. It returns a populated Config, a boolean indicating if the
// program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	return ParseWithEnv(args, output, os.LookupEnv)
}

// ParseWithEnv is Parse with an explicit environment.
func ParseWithEnv(args []string, output io.Writer, lookupEnv LookupEnvFunc) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	env := envDefaults{lookup: lookupEnv}

	flagSet := flag.NewFlagSet("pathwaygen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
pathwaygen - Publishes a learning pathway as static JSON data.

Reads the ordered step list from <data-dir>/pathway.{hcl,yaml,yml}, writes
every step to <out-dir>/steps/<id>.json, copies the images and _assignments
trees and writes <out-dir>/pathway.json.

Usage:
  pathwaygen [options]

Every option can also be set through its PATHWAYGEN_* environment variable.
A .env file in the working directory is read first; flags win.

Options:
`)
		flagSet.PrintDefaults()
	}

	dataDirFlag := flagSet.String("data-dir", env.string(EnvDataDir, app.DefaultDataDir), "Directory holding the pathway, steps, images and _assignments.")
	outDirFlag := flagSet.String("out-dir", env.string(EnvOutDir, app.DefaultOutDir), "Directory the artifacts are written to.")
	pathwayFlag := flagSet.String("pathway", env.string(EnvPathway, ""), "Explicit pathway document. Defaults to <data-dir>/pathway.<ext>.")
	logFormatFlag := flagSet.String("log-format", env.string(EnvLogFormat, app.DefaultLogFormat), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", env.string(EnvLogLevel, app.DefaultLogLevel), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	notifyURLFlag := flagSet.String("notify-url", env.string(EnvNotifyURL, ""), "socket.io endpoint notified after a successful publish. Empty disables it.")
	notifyEventFlag := flagSet.String("notify-event", env.string(EnvNotifyEvent, notify.DefaultEvent), "Event name emitted to -notify-url.")
	checkFlag := flagSet.Bool("check", false, "Load and validate everything without writing any output.")

	pruneDefault, err := env.bool(EnvPrune, true)
	if err != nil {
		return nil, false, err
	}
	pruneFlag := flagSet.Bool("prune", pruneDefault, "Remove step JSON files that are no longer listed in the pathway.")

	strictDefault, err := env.bool(EnvStrict, false)
	if err != nil {
		return nil, false, err
	}
	strictFlag := flagSet.Bool("strict", strictDefault, "Reject steps whose type is not a registered kind.")

	timeoutDefault, err := env.duration(EnvNotifyTimeout, notify.DefaultTimeout)
	if err != nil {
		return nil, false, err
	}
	notifyTimeoutFlag := flagSet.Duration("notify-timeout", timeoutDefault, "How long to wait for the notification endpoint to accept the connection.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		DataDir:       *dataDirFlag,
		OutDir:        *outDirFlag,
		PathwayFile:   *pathwayFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		Prune:         *pruneFlag,
		CheckOnly:     *checkFlag,
		StrictKinds:   *strictFlag,
		NotifyURL:     *notifyURLFlag,
		NotifyEvent:   *notifyEventFlag,
		NotifyTimeout: *notifyTimeoutFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// ExitCode maps an error returned by the application to a process exit code.
func ExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, app.ErrConfig):
		return 3
	case errors.Is(err, app.ErrContent):
		return 4
	case errors.Is(err, app.ErrPublish):
		return 5
	default:
		return 1
	}
}

type envDefaults struct {
	lookup LookupEnvFunc
}

func (e envDefaults) string(key, fallback string) string {
	if v, ok := e.lookup(key); ok && v != "" {
		return v
	}
	return fallback
}

func (e envDefaults) bool(key string, fallback bool) (bool, error) {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid %s: %q is not a boolean", key, v)}
	}
	return b, nil
}

func (e envDefaults) duration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, &ExitError{Code: 2, Message: fmt.Sprintf("invalid %s: %q is not a duration", key, v)}
	}
	return d, nil
}
