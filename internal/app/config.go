package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// Default locations, relative to the working directory.
const (
	DefaultDataDir    = "data"
	DefaultOutDir     = "_data"
	DefaultLogFormat  = "text"
	DefaultLogLevel   = "info"
	StepsDirName      = "steps"
	ImagesDirName     = "images"
	AssignmentDirName = "_assignments"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DataDir     string
	OutDir      string
	PathwayFile string // empty means <DataDir>/pathway.<ext>

	// Derived from DataDir and OutDir when left empty.
	StepsDir       string
	ImagesDir      string
	AssignmentsDir string
	OutStepsDir    string

	LogFormat string
	LogLevel  string

	Prune       bool
	CheckOnly   bool
	StrictKinds bool

	NotifyURL     string
	NotifyEvent   string
	NotifyTimeout time.Duration
}

// NewConfig validates cfg and fills the derived paths and defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("DataDir is a required configuration field and cannot be empty")
	}
	if cfg.OutDir == "" {
		return nil, errors.New("OutDir is a required configuration field and cannot be empty")
	}
	if cfg.StepsDir == "" {
		cfg.StepsDir = filepath.Join(cfg.DataDir, StepsDirName)
	}
	if cfg.ImagesDir == "" {
		cfg.ImagesDir = filepath.Join(cfg.DataDir, ImagesDirName)
	}
	if cfg.AssignmentsDir == "" {
		cfg.AssignmentsDir = filepath.Join(cfg.DataDir, AssignmentDirName)
	}
	if cfg.OutStepsDir == "" {
		cfg.OutStepsDir = filepath.Join(cfg.OutDir, StepsDirName)
	}

	// Copying a tree into itself never terminates, so the output must live
	// outside every source tree.
	for _, src := range []struct{ name, dir string }{
		{"DataDir", cfg.DataDir},
		{"StepsDir", cfg.StepsDir},
		{"ImagesDir", cfg.ImagesDir},
		{"AssignmentsDir", cfg.AssignmentsDir},
	} {
		inside, err := isWithin(cfg.OutDir, src.dir)
		if err != nil {
			return nil, err
		}
		if inside {
			return nil, fmt.Errorf("OutDir %q must be outside %s %q", cfg.OutDir, src.name, src.dir)
		}
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = DefaultLogFormat
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	if cfg.NotifyTimeout < 0 {
		return nil, fmt.Errorf("NotifyTimeout must not be negative, got %s", cfg.NotifyTimeout)
	}

	return &cfg, nil
}

// isWithin reports whether path is dir itself or lies below it.
func isWithin(path, dir string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("cannot resolve %q: %w", path, err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, fmt.Errorf("cannot resolve %q: %w", dir, err)
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false, nil
	}
	return rel == "." || filepath.IsLocal(rel), nil
}
