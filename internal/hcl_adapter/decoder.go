package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/pathwaygen/internal/ctxlog"
	"github.com/specialistvlad/pathwaygen/internal/docval"
	"github.com/zclconf/go-cty/cty"
)

// stepsAttribute holds the ordered identifiers in a pathway document.
const stepsAttribute = "steps"

// Decoder is the HCL-specific implementation of the model.Decoder interface.
type Decoder struct{}

// NewDecoder creates a new HCL document decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Extensions implements model.Decoder.
func (d *Decoder) Extensions() []string {
	return []string{".hcl"}
}

// pathwaySchema accepts any other attribute next to `steps` so authors can
// keep notes such as a title in the pathway document.
var pathwaySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: stepsAttribute, Required: true},
	},
}

// DecodePathway implements model.Decoder.
func (d *Decoder) DecodePathway(ctx context.Context, path string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding HCL pathway document.", "path", path)

	hclFile, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	content, _, diags := hclFile.Body.PartialContent(pathwaySchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	attr := content.Attributes[stepsAttribute]
	val, diags := attr.Expr.Value(newEvalContext(filepath.Dir(path), nil))
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate %q in %s: %w", stepsAttribute, path, diags)
	}

	steps, diags := stringList(val, attr.Expr.Range())
	if diags.HasErrors() {
		return nil, diags
	}

	logger.Debug("HCL pathway document decoded.", "path", path, "steps", len(steps))
	return steps, nil
}

// stringList accepts a list or tuple whose every element is a non-null string.
func stringList(val cty.Value, rng hcl.Range) ([]string, hcl.Diagnostics) {
	ty := val.Type()
	if val.IsNull() || !(ty.IsListType() || ty.IsTupleType()) {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid pathway order",
			Detail:   fmt.Sprintf("The %q attribute must be a list of step identifiers, got %s.", stepsAttribute, ty.FriendlyName()),
			Subject:  rng.Ptr(),
		}}
	}

	var diags hcl.Diagnostics
	steps := make([]string, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		idx, elem := it.Element()
		if elem.IsNull() || !elem.IsKnown() || !elem.Type().Equals(cty.String) {
			i, _ := idx.AsBigFloat().Int64()
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid step identifier",
				Detail:   fmt.Sprintf("Element %d of %q must be a string, got %s.", i, stepsAttribute, elem.Type().FriendlyName()),
				Subject:  rng.Ptr(),
			})
			continue
		}
		steps = append(steps, elem.AsString())
	}
	return steps, diags
}

// DecodeStep implements model.Decoder.
func (d *Decoder) DecodeStep(ctx context.Context, id, path string) (*docval.Object, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding HCL step document.", "path", path)

	hclFile, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	body, ok := hclFile.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%s is not written in native HCL syntax", path)
	}
	if len(body.Blocks) > 0 {
		block := body.Blocks[0]
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unexpected block",
			Detail:   fmt.Sprintf("Step documents contain attributes only; use an object value (%s = { ... }) instead of a %q block.", block.Type, block.Type),
			Subject:  block.TypeRange.Ptr(),
		}}
	}

	evalCtx := newEvalContext(filepath.Dir(path), map[string]cty.Value{
		"step": cty.ObjectVal(map[string]cty.Value{
			"id": cty.StringVal(id),
		}),
	})

	obj := docval.NewObject()
	var allDiags hcl.Diagnostics
	for _, attr := range orderedAttributes(body) {
		v, diags := exprValue(attr.Expr, evalCtx)
		allDiags = append(allDiags, diags...)
		if diags.HasErrors() {
			continue
		}
		obj.Set(attr.Name, v)
	}
	if allDiags.HasErrors() {
		return nil, allDiags
	}

	logger.Debug("HCL step document decoded.", "path", path, "attributes", obj.Len())
	return obj, nil
}

// orderedAttributes returns the body's attributes in source order. The
// parser stores them in a map, so the order has to be recovered from the
// source ranges.
func orderedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	return attrs
}
