// Package yaml_adapter provides the YAML implementation of model.Decoder.
package yaml_adapter

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/specialistvlad/pathwaygen/internal/ctxlog"
	"github.com/specialistvlad/pathwaygen/internal/docval"
	"gopkg.in/yaml.v3"
)

// Decoder is the YAML-specific implementation of the model.Decoder interface.
type Decoder struct{}

// NewDecoder creates a new YAML document decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Extensions implements model.Decoder.
func (d *Decoder) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// DecodePathway implements model.Decoder. The document is either a plain
// sequence of identifiers or a mapping with a `steps` sequence.
func (d *Decoder) DecodePathway(ctx context.Context, path string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding YAML pathway document.", "path", path)

	root, err := readRoot(path)
	if err != nil {
		return nil, err
	}

	var steps []string
	switch root.Kind {
	case yaml.SequenceNode:
		if err := decodeStrings(root, &steps); err != nil {
			return nil, fmt.Errorf("invalid pathway order in %s: %w", path, err)
		}
	case yaml.MappingNode:
		stepsNode := mappingValue(root, "steps")
		if stepsNode == nil {
			return nil, fmt.Errorf("invalid pathway order in %s: missing \"steps\"", path)
		}
		if stepsNode.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("invalid pathway order in %s: line %d: \"steps\" must be a sequence", path, stepsNode.Line)
		}
		if err := decodeStrings(stepsNode, &steps); err != nil {
			return nil, fmt.Errorf("invalid pathway order in %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("invalid pathway order in %s: line %d: expected a sequence of step identifiers", path, root.Line)
	}

	logger.Debug("YAML pathway document decoded.", "path", path, "steps", len(steps))
	return steps, nil
}

// decodeStrings only accepts string scalars; yaml.v3 would otherwise
// happily turn `- 3` into "3".
func decodeStrings(seq *yaml.Node, out *[]string) error {
	items := make([]string, 0, len(seq.Content))
	for i, item := range seq.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
			return fmt.Errorf("line %d: element %d must be a string", item.Line, i)
		}
		items = append(items, item.Value)
	}
	*out = items
	return nil
}

// DecodeStep implements model.Decoder.
func (d *Decoder) DecodeStep(ctx context.Context, id, path string) (*docval.Object, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding YAML step document.", "path", path, "step", id)

	root, err := readRoot(path)
	if err != nil {
		return nil, err
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: line %d: a step document must be a mapping", path, root.Line)
	}

	v, err := nodeValue(root, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	obj := v.(*docval.Object)

	logger.Debug("YAML step document decoded.", "path", path, "attributes", obj.Len())
	return obj, nil
}

var errEmptyDocument = errors.New("document is empty")

// readRoot parses the first document of a YAML file and returns its root node.
func readRoot(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%s: %w", path, errEmptyDocument)
	}
	return resolveAlias(doc.Content[0]), nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return resolveAlias(m.Content[i+1])
		}
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
