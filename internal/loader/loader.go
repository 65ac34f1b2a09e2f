// Package loader resolves pathway and step documents on disk and hands them
// to the decoder registered for their file extension.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/pathwaygen/internal/ctxlog"
	"github.com/specialistvlad/pathwaygen/internal/fsutil"
	"github.com/specialistvlad/pathwaygen/internal/model"
)

// PathwayName is the base name of the pathway document inside the data
// directory.
const PathwayName = "pathway"

var (
	// ErrNotFound is returned when no document exists for any registered
	// extension.
	ErrNotFound = errors.New("file not found")
	// ErrAmbiguous is returned when documents exist for more than one
	// registered extension.
	ErrAmbiguous = errors.New("ambiguous document")
	// ErrInvalidID is returned for identifiers that are not local relative
	// paths.
	ErrInvalidID = errors.New("invalid step identifier")
)

// Loader is the Order Loader and Step Loader of the pipeline.
type Loader struct {
	dataDir    string
	stepsDir   string
	extensions []string
	decoders   map[string]model.Decoder
}

// New creates a Loader reading the pathway from dataDir and steps from
// stepsDir. Decoders are consulted in the given order when resolving a
// document, so the first decoder's extensions are preferred.
func New(dataDir, stepsDir string, decoders ...model.Decoder) *Loader {
	l := &Loader{
		dataDir:  dataDir,
		stepsDir: stepsDir,
		decoders: make(map[string]model.Decoder),
	}
	for _, d := range decoders {
		for _, ext := range d.Extensions() {
			if _, exists := l.decoders[ext]; exists {
				panic(fmt.Sprintf("loader: extension %q registered twice", ext))
			}
			l.decoders[ext] = d
			l.extensions = append(l.extensions, ext)
		}
	}
	return l
}

// Extensions returns the document extensions in resolution order.
func (l *Loader) Extensions() []string {
	out := make([]string, len(l.extensions))
	copy(out, l.extensions)
	return out
}

// LoadPathway reads the pathway order. An empty path resolves
// `<data-dir>/pathway.<ext>`.
func (l *Loader) LoadPathway(ctx context.Context, path string) (*model.Pathway, error) {
	logger := ctxlog.FromContext(ctx)

	if path == "" {
		resolved, err := l.resolve(filepath.Join(l.dataDir, PathwayName))
		if err != nil {
			return nil, fmt.Errorf("pathway %w", err)
		}
		path = resolved
	} else if ok, err := fsutil.IsFile(path); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("pathway %w: %s", ErrNotFound, path)
	}

	decoder, err := l.decoderFor(path)
	if err != nil {
		return nil, err
	}

	steps, err := decoder.DecodePathway(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("error loading pathway order from %s: %w", path, err)
	}

	pathway := model.NewPathway(steps, path)
	logger.Info("Loaded pathway order.", "path", path, "steps", len(pathway.Steps))
	if dups := pathway.Duplicates(); len(dups) > 0 {
		logger.Warn("Pathway lists some steps more than once.", "duplicates", dups)
	}
	return pathway, nil
}

// LoadStep resolves, decodes and checks the document of step id.
func (l *Loader) LoadStep(ctx context.Context, id string) (*model.Step, error) {
	logger := ctxlog.FromContext(ctx)

	if !filepath.IsLocal(filepath.FromSlash(id)) {
		return nil, fmt.Errorf("%w %q: must be a relative path inside the steps directory", ErrInvalidID, id)
	}

	path, err := l.resolve(filepath.Join(l.stepsDir, filepath.FromSlash(id)))
	if err != nil {
		return nil, fmt.Errorf("error loading step data for %q: step %w", id, err)
	}
	logger.Debug("Resolved step document.", "path", path)

	decoder, err := l.decoderFor(path)
	if err != nil {
		return nil, err
	}

	data, err := decoder.DecodeStep(ctx, id, path)
	if err != nil {
		return nil, fmt.Errorf("error loading step data for %q from %s: %w", id, path, err)
	}

	return model.NewStep(id, data, path)
}

// resolve finds the single document `base.<ext>` over all registered
// extensions.
func (l *Loader) resolve(base string) (string, error) {
	candidates := make([]string, 0, len(l.extensions))
	for _, ext := range l.extensions {
		candidates = append(candidates, base+ext)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no document decoders registered")
	}

	found, others, err := fsutil.FirstExisting(candidates...)
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("%w: %s (tried %s)", ErrNotFound, candidates[0], strings.Join(l.extensions, ", "))
	}
	if len(others) > 0 {
		return "", fmt.Errorf("%w: %s conflicts with %s", ErrAmbiguous, found, strings.Join(others, ", "))
	}
	return found, nil
}

func (l *Loader) decoderFor(path string) (model.Decoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	d, ok := l.decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported document format %q for %s (supported: %s)", ext, path, strings.Join(l.extensions, ", "))
	}
	return d, nil
}
