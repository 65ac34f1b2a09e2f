package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/pathwaygen/internal/ctxlog"
	"github.com/specialistvlad/pathwaygen/internal/docval"
	"github.com/specialistvlad/pathwaygen/internal/model"
)

var (
	// ErrUnknownKind is returned by a strict registry for unregistered kinds.
	ErrUnknownKind = errors.New("unknown step kind")
	// ErrInvalidStep is returned when a step lacks a required attribute or
	// carries it with the wrong JSON type.
	ErrInvalidStep = errors.New("invalid step")
)

// ValidateStep checks a loaded step against its kind.
func (r *Registry) ValidateStep(ctx context.Context, step *model.Step) error {
	logger := ctxlog.FromContext(ctx)

	kind, ok := r.kinds[step.Type]
	if !ok {
		if r.strict {
			return fmt.Errorf("%w %q for step %q (known kinds: %s)", ErrUnknownKind, step.Type, step.ID, strings.Join(r.Kinds(), ", "))
		}
		logger.Warn("Step has an unregistered kind, publishing it unchecked.", "step", step.ID, "type", step.Type)
		return nil
	}

	var errs []string
	for _, attr := range kind.Required {
		v, exists := step.Data.Get(attr.Name)
		if !exists {
			errs = append(errs, fmt.Sprintf("missing required attribute %q", attr.Name))
			continue
		}
		if got := docval.TypeName(v); got != attr.Type {
			errs = append(errs, fmt.Sprintf("attribute %q must be %s, got %s", attr.Name, article(attr.Type), got))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w %q (%s):\n- %s", ErrInvalidStep, step.ID, kind.Name, strings.Join(errs, "\n- "))
	}

	logger.Debug("Step matches its kind.", "step", step.ID, "type", step.Type)
	return nil
}

func article(typeName string) string {
	switch typeName {
	case "array", "object":
		return "an " + typeName
	default:
		return "a " + typeName
	}
}
