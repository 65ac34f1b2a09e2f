package hcl_adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// newEvalContext builds the evaluation context for a document located in
// baseDir.
func newEvalContext(baseDir string, vars map[string]cty.Value) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: vars,
		Functions: map[string]function.Function{
			"file":      makeFileFunc(baseDir),
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"join":      stdlib.JoinFunc,
			"format":    stdlib.FormatFunc,
			"concat":    stdlib.ConcatFunc,
			"length":    stdlib.LengthFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"replace":   stdlib.ReplaceFunc,
			"split":     stdlib.SplitFunc,
		},
	}
}

// makeFileFunc returns `file(path)`, which reads a UTF-8 text file. Relative
// paths are resolved against baseDir, the directory of the calling document.
func makeFileFunc(baseDir string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "path", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			path := args[0].AsString()
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return cty.UnknownVal(cty.String), fmt.Errorf("failed to read %s: %w", path, err)
			}
			if !utf8.Valid(src) {
				return cty.UnknownVal(cty.String), fmt.Errorf("contents of %s are not valid UTF-8", path)
			}
			return cty.StringVal(string(src)), nil
		},
	})
}
