package docval

import (
	"bytes"
	"encoding/json"
)

// Indent is the indentation used for every published JSON document.
const Indent = "  "

// MarshalIndent encodes v as pretty-printed JSON with two-space indentation.
// HTML characters are written as-is and no trailing newline is added.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func encodeCompact(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode always terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// TypeName returns the JSON type name of a value: "null", "boolean",
// "number", "string", "array" or "object".
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, int, int64, uint64, float64:
		return "number"
	case []any:
		return "array"
	case *Object:
		return "object"
	default:
		return "unknown"
	}
}
