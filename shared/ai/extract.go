package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Tree is untrusted model output decoded as a JSON object. Values are the
// encoding/json generic types: map[string]any, []any, string, float64, bool, nil.
type Tree map[string]any

// Object returns the nested object under key, or nil when absent or not an object.
func (t Tree) Object(key string) Tree {
	obj, _ := t[key].(map[string]any)
	return obj
}

var errNoJSONObject = errors.New("no JSON object found")

// Extract turns raw completion text into a Tree. The whole text is tried as
// JSON first; failing that, the span from the first "{" to the last "}" is
// tried, which recovers payloads wrapped in prose or markdown fences.
func Extract(raw string) (Tree, error) {
	tree, err := decodeObject(raw)
	if err == nil {
		return tree, nil
	}

	startIdx := strings.Index(raw, "{")
	endIdx := strings.LastIndex(raw, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, &ExtractionError{Raw: raw, Err: errNoJSONObject}
	}

	tree, spanErr := decodeObject(raw[startIdx : endIdx+1])
	if spanErr != nil {
		return nil, &ExtractionError{Raw: raw, Err: fmt.Errorf("%w (brace span also failed: %v)", err, spanErr)}
	}
	return tree, nil
}

// decodeObject accepts only a JSON object; arrays and scalars are rejected.
func decodeObject(text string) (Tree, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level JSON value is %T, want object", v)
	}
	return obj, nil
}
