package hcl_adapter

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/pathwaygen/internal/docval"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// exprValue evaluates an expression into a docval value. Object and tuple
// constructors are walked item by item so that their members keep source
// order; every other expression is evaluated as a whole and converted.
func exprValue(expr hclsyntax.Expression, evalCtx *hcl.EvalContext) (any, hcl.Diagnostics) {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		obj := docval.NewObject()
		var diags hcl.Diagnostics
		for _, item := range e.Items {
			key, keyDiags := objectKey(item.KeyExpr, evalCtx)
			diags = append(diags, keyDiags...)
			if keyDiags.HasErrors() {
				continue
			}
			v, valDiags := exprValue(item.ValueExpr, evalCtx)
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				continue
			}
			obj.Set(key, v)
		}
		return obj, diags

	case *hclsyntax.TupleConsExpr:
		out := make([]any, 0, len(e.Exprs))
		var diags hcl.Diagnostics
		for _, elemExpr := range e.Exprs {
			v, elemDiags := exprValue(elemExpr, evalCtx)
			diags = append(diags, elemDiags...)
			if elemDiags.HasErrors() {
				continue
			}
			out = append(out, v)
		}
		return out, diags

	default:
		val, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		v, err := FromCty(val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported value",
				Detail:   err.Error(),
				Subject:  expr.Range().Ptr(),
			})
			return nil, diags
		}
		return v, diags
	}
}

// objectKey evaluates an object constructor key. Bare identifiers evaluate
// to their own name.
func objectKey(expr hclsyntax.Expression, evalCtx *hcl.EvalContext) (string, hcl.Diagnostics) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() || !val.IsKnown() {
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid object key",
			Detail:   "Object keys must be known, non-null strings.",
			Subject:  expr.Range().Ptr(),
		})
	}
	strVal, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid object key",
			Detail:   fmt.Sprintf("Cannot use a %s value as an object key.", val.Type().FriendlyName()),
			Subject:  expr.Range().Ptr(),
		})
	}
	return strVal.AsString(), diags
}

// FromCty converts a cty.Value into a docval value. Object and map members
// come out in cty's lexical attribute order.
func FromCty(val cty.Value) (any, error) {
	if val.IsMarked() {
		val, _ = val.Unmark()
	}
	if !val.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	if val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInf() {
			return nil, fmt.Errorf("infinite numbers cannot be represented in JSON")
		}
		return json.Number(bf.Text('f', -1)), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			v, err := FromCty(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case ty.IsMapType() || ty.IsObjectType():
		obj := docval.NewObject()
		for it := val.ElementIterator(); it.Next(); {
			k, elem := it.Element()
			v, err := FromCty(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", k.AsString(), err)
			}
			obj.Set(k.AsString(), v)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}
