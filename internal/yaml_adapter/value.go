package yaml_adapter

import (
	"fmt"
	"math"

	"github.com/specialistvlad/pathwaygen/internal/docval"
	"gopkg.in/yaml.v3"
)

// maxDepth bounds nesting so that a self-referencing alias cannot recurse
// forever.
const maxDepth = 64

// nodeValue converts a YAML node into a docval value, keeping mapping order.
func nodeValue(n *yaml.Node, depth int) (any, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("line %d: document nested deeper than %d levels", n.Line, maxDepth)
	}
	n = resolveAlias(n)

	switch n.Kind {
	case yaml.MappingNode:
		return mappingObject(n, depth)

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := nodeValue(item, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.ScalarNode:
		return scalarValue(n)

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}

// mappingObject converts a mapping. A `<<` merge key folds in the members of
// the referenced mapping, or of each mapping in a referenced sequence, at
// its position. Explicit keys of the mapping always win, and among merged
// mappings the first one listed wins.
func mappingObject(n *yaml.Node, depth int) (*docval.Object, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("line %d: document nested deeper than %d levels", n.Line, maxDepth)
	}
	explicit := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := resolveAlias(n.Content[i])
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}
		if !isMergeKey(keyNode) {
			explicit[keyNode.Value] = struct{}{}
		}
	}

	obj := docval.NewObject()
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := resolveAlias(n.Content[i])
		if isMergeKey(keyNode) {
			if err := mergeInto(obj, explicit, n.Content[i+1], depth); err != nil {
				return nil, err
			}
			continue
		}
		v, err := nodeValue(n.Content[i+1], depth+1)
		if err != nil {
			return nil, err
		}
		obj.Set(keyNode.Value, v)
	}
	return obj, nil
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!merge"
}

// mergeInto adds the members of the mapping(s) in src to obj, skipping keys
// the mapping sets explicitly or that an earlier merge already added.
func mergeInto(obj *docval.Object, explicit map[string]struct{}, src *yaml.Node, depth int) error {
	src = resolveAlias(src)

	var sources []*yaml.Node
	switch src.Kind {
	case yaml.MappingNode:
		sources = []*yaml.Node{src}
	case yaml.SequenceNode:
		for _, item := range src.Content {
			sources = append(sources, resolveAlias(item))
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("line %d: a merge key needs a mapping or a sequence of mappings", src.Line)
	}

	for _, m := range sources {
		if m.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: a merge key needs a mapping or a sequence of mappings", m.Line)
		}
		merged, err := mappingObject(m, depth+1)
		if err != nil {
			return err
		}
		for _, k := range merged.Keys() {
			if _, ok := explicit[k]; ok {
				continue
			}
			if _, ok := obj.Get(k); ok {
				continue
			}
			v, _ := merged.Get(k)
			obj.Set(k, v)
		}
	}
	return nil
}

// scalarValue keeps the YAML type of null, bool, int and float scalars.
// Everything else, timestamps included, is published as the text the
// author wrote.
func scalarValue(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool", "!!int", "!!float":
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
			return nil, fmt.Errorf("line %d: %s cannot be represented in JSON", n.Line, n.Value)
		}
		return v, nil
	default:
		return n.Value, nil
	}
}
