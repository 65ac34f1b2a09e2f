package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pathwaygen/internal/ctxlog"
	"github.com/specialistvlad/pathwaygen/internal/notify"
	"github.com/specialistvlad/pathwaygen/internal/publisher"
)

// Run executes the generation pipeline: load the pathway order, then load,
// validate and emit every step in that order, then copy the asset trees,
// write the manifest, prune orphaned step output and notify. The first
// failure stops the run and is classified as ErrConfig, ErrContent or
// ErrPublish.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger
	logger.Debug("App.Run method started.")
	logger.Info("🚀 Starting pathway data generation...", "data_dir", a.config.DataDir, "out_dir", a.config.OutDir)

	pathway, err := a.loader.LoadPathway(ctx, a.config.PathwayFile)
	if err != nil {
		return classify(ErrConfig, err)
	}
	total := len(pathway.Steps)
	if total == 0 {
		logger.Warn("Pathway lists no steps.", "file", pathway.FSInformation.FilePath)
	}

	for i, id := range pathway.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run cancelled before step %q: %w", id, err)
		}
		if err := a.processStep(ctxlog.With(ctx, "step", id, "index", i+1, "total", total), id); err != nil {
			return err
		}
	}

	if a.config.CheckOnly {
		logger.Info("✅ Check passed, nothing written.", "steps", total)
		return nil
	}

	err = a.publisher.CopyTrees(ctx,
		publisher.Tree{Name: ImagesDirName, Source: a.config.ImagesDir},
		publisher.Tree{Name: AssignmentDirName, Source: a.config.AssignmentsDir},
	)
	if err != nil {
		return classify(ErrPublish, err)
	}

	logger.Info("Saving pathway.json...")
	manifest, err := a.publisher.WriteManifest(ctx, pathway.Steps)
	if err != nil {
		return classify(ErrPublish, err)
	}

	if a.config.Prune {
		removed, err := a.emitter.Prune(ctx, pathway.Steps)
		if err != nil {
			return classify(ErrPublish, err)
		}
		if len(removed) > 0 {
			logger.Info("🧹 Pruned orphaned step output.", "count", len(removed))
		}
	}

	if a.notifier != nil {
		if err := a.notifier.Publish(ctx, notify.Payload{Steps: total, Manifest: manifest}); err != nil {
			logger.Warn("Publish notification failed, artifacts are already written.", "error", err)
		}
	}

	logger.Info("🏁 Pathway data generation finished.", "steps", total, "manifest", manifest)
	logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) processStep(ctx context.Context, id string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Processing step...")

	step, err := a.loader.LoadStep(ctx, id)
	if err != nil {
		return classify(ErrContent, err)
	}
	logger.Debug("Step loaded.", "type", step.Type, "format", step.FSInformation.Format())
	if err := a.registry.ValidateStep(ctx, step); err != nil {
		return classify(ErrContent, err)
	}
	if a.config.CheckOnly {
		logger.Debug("Step is valid.", "type", step.Type)
		return nil
	}

	path, err := a.emitter.Emit(ctx, step)
	if err != nil {
		return classify(ErrPublish, err)
	}
	logger.Debug("Step emitted.", "type", step.Type, "path", path)
	return nil
}
