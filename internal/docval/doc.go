// Package docval holds step payloads as plain JSON-shaped Go values and
// writes them back out as JSON.
//
// A value is one of: nil, bool, string, json.Number, the Go numeric types
// produced by YAML decoding, []any, or *Object. Object exists because
// content authors expect the published JSON to list members in the order
// they wrote them, which a Go map cannot preserve.
package docval
