// Package publisher copies the static asset trees next to the emitted steps
// and writes the pathway manifest.
package publisher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/pathwaygen/internal/ctxlog"
	"github.com/specialistvlad/pathwaygen/internal/docval"
	"github.com/specialistvlad/pathwaygen/internal/fsutil"
)

// ManifestName is the file name of the manifest inside the output directory.
const ManifestName = "pathway.json"

// Tree is a source directory that is mirrored into the output directory
// under Name.
type Tree struct {
	Name   string
	Source string
}

// Publisher is the Asset Publisher of the pipeline.
type Publisher struct {
	outDir string
}

// New creates a Publisher rooted at outDir.
func New(outDir string) *Publisher {
	return &Publisher{outDir: outDir}
}

// ManifestPath returns where WriteManifest writes.
func (p *Publisher) ManifestPath() string {
	return filepath.Join(p.outDir, ManifestName)
}

// CopyTrees copies every tree, in order, into <out>/<Name>. The first
// failure stops the copy.
func (p *Publisher) CopyTrees(ctx context.Context, trees ...Tree) error {
	logger := ctxlog.FromContext(ctx)

	for _, tree := range trees {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := filepath.Join(p.outDir, tree.Name)
		logger.Info(fmt.Sprintf("Copying %s to output dir...", tree.Name), "from", tree.Source, "to", dst)

		n, err := fsutil.CopyTree(tree.Source, dst)
		if err != nil {
			return fmt.Errorf("failed to copy %s: %w", tree.Name, err)
		}
		logger.Debug("Tree copied.", "tree", tree.Name, "files", n)
	}
	return nil
}

// WriteManifest writes the ordered step identifiers to <out>/pathway.json
// and returns its path.
func (p *Publisher) WriteManifest(ctx context.Context, ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	content, err := docval.MarshalIndent(ids)
	if err != nil {
		return "", fmt.Errorf("failed to serialize pathway manifest: %w", err)
	}

	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", p.outDir, err)
	}
	path := p.ManifestPath()
	if err := fsutil.WriteFileAtomic(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write pathway manifest %s: %w", path, err)
	}

	ctxlog.FromContext(ctx).Debug("Manifest written.", "path", path, "steps", len(ids))
	return path, nil
}
