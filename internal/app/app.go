package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/pathwaygen/internal/emitter"
	"github.com/specialistvlad/pathwaygen/internal/hcl_adapter"
	"github.com/specialistvlad/pathwaygen/internal/loader"
	"github.com/specialistvlad/pathwaygen/internal/notify"
	"github.com/specialistvlad/pathwaygen/internal/publisher"
	"github.com/specialistvlad/pathwaygen/internal/registry"
	"github.com/specialistvlad/pathwaygen/internal/yaml_adapter"
)

// Notifier announces a finished publish.
type Notifier interface {
	Publish(ctx context.Context, payload notify.Payload) error
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	registry  *registry.Registry
	loader    *loader.Loader
	emitter   *emitter.Emitter
	publisher *publisher.Publisher
	notifier  Notifier // nil when notifications are disabled
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and kind registry.
// Without kinds the core kinds are registered.
func NewApp(outW io.Writer, cfg *Config, kinds ...registry.Kind) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New(cfg.StrictKinds)
	if len(kinds) == 0 {
		kinds = registry.CoreKinds()
	}
	for _, k := range kinds {
		reg.RegisterKind(k)
	}
	logger.Debug("Step kinds registered.", "kinds", reg.Kinds(), "strict", reg.Strict())

	ld := loader.New(cfg.DataDir, cfg.StepsDir, hcl_adapter.NewDecoder(), yaml_adapter.NewDecoder())
	logger.Debug("Document loader configured.", "extensions", ld.Extensions())

	a := &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		registry:  reg,
		loader:    ld,
		emitter:   emitter.New(cfg.OutStepsDir),
		publisher: publisher.New(cfg.OutDir),
	}

	if cfg.NotifyURL != "" {
		n, err := notify.New(cfg.NotifyURL, cfg.NotifyEvent, cfg.NotifyTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to configure publish notification: %w", err)
		}
		a.notifier = n
		logger.Debug("Publish notification enabled.", "event", n.Event())
	}

	return a, nil
}

// Registry returns the application's kind registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
