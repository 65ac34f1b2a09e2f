// Package emitter writes one JSON document per step into the output steps
// directory and removes documents of steps that left the pathway.
package emitter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/pathwaygen/internal/ctxlog"
	"github.com/specialistvlad/pathwaygen/internal/docval"
	"github.com/specialistvlad/pathwaygen/internal/fsutil"
	"github.com/specialistvlad/pathwaygen/internal/model"
)

// Extension is the file extension of every emitted step document.
const Extension = ".json"

// Emitter is the JSON Emitter of the pipeline.
type Emitter struct {
	dir string
}

// New creates an Emitter writing into dir.
func New(dir string) *Emitter {
	return &Emitter{dir: dir}
}

// PathFor returns the output path of step id.
func (e *Emitter) PathFor(id string) string {
	return filepath.Join(e.dir, filepath.FromSlash(id)+Extension)
}

// Emit serializes the step payload and writes it to PathFor(step.ID). A
// previous document at that path is deleted first.
func (e *Emitter) Emit(ctx context.Context, step *model.Step) (string, error) {
	logger := ctxlog.FromContext(ctx)

	content, err := docval.MarshalIndent(step.Data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize step %q: %w", step.ID, err)
	}

	path := e.PathFor(step.ID)
	removed, err := fsutil.RemoveIfExists(path)
	if err != nil {
		return "", fmt.Errorf("failed to remove previous output for step %q: %w", step.ID, err)
	}
	if removed {
		logger.Debug("Removed previous step output.", "path", path)
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory for step %q: %w", step.ID, err)
	}

	if err := fsutil.WriteFileAtomic(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write step %q to %s: %w", step.ID, path, err)
	}

	logger.Debug("Step written.", "path", path, "bytes", len(content))
	return path, nil
}

// Prune removes emitted documents whose identifier is not in keep. It
// returns the removed paths. A missing steps directory is not an error.
func (e *Emitter) Prune(ctx context.Context, keep []string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(e.dir, Extension)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list emitted steps in %s: %w", e.dir, err)
	}

	wanted := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		wanted[e.PathFor(id)] = struct{}{}
	}

	var removed []string
	for _, file := range files {
		if _, ok := wanted[file]; ok {
			continue
		}
		if _, err := fsutil.RemoveIfExists(file); err != nil {
			return removed, fmt.Errorf("failed to remove orphaned step output %s: %w", file, err)
		}
		logger.Info("Removed orphaned step output.", "path", file, "step", e.idFor(file))
		removed = append(removed, file)
	}
	return removed, nil
}

// idFor maps an emitted path back to its step identifier.
func (e *Emitter) idFor(path string) string {
	rel, err := filepath.Rel(e.dir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, Extension))
}
