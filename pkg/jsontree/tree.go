// Package jsontree reads loosely-typed provider payloads with JSONPath
// expressions. Missing keys, nulls and non-numeric values are reported as
// absent instead of errors: upstream fundamentals are routinely incomplete.
package jsontree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// Tree is a decoded JSON document
type Tree struct {
	root any
}

// Parse decodes data keeping numbers as json.Number so no precision is lost
func Parse(data []byte) (Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return Tree{}, fmt.Errorf("decode json: %w", err)
	}
	return Tree{root: root}, nil
}

// Root returns the underlying decoded value
func (t Tree) Root() any {
	return t.root
}

// Get evaluates path ("$.a.b[0]") and reports whether a non-null value was found.
// A one-element result list is unwrapped to its element.
func (t Tree) Get(path string) (any, bool) {
	if t.root == nil {
		return nil, false
	}
	v, err := jsonpath.Get(path, t.root)
	if err != nil {
		return nil, false
	}
	// jsonpath returns either a single value or a list of matches
	if list, ok := v.([]any); ok && len(list) == 1 && isWildcard(path) {
		v = list[0]
	}
	if v == nil {
		return nil, false
	}
	return v, true
}

// Decimal reads a number at path. Numeric strings are accepted.
func (t Tree) Decimal(path string) decimal.NullDecimal {
	v, ok := t.Get(path)
	if !ok {
		return decimal.NullDecimal{}
	}
	return ToDecimal(v)
}

// String reads a string at path
func (t Tree) String(path string) (string, bool) {
	v, ok := t.Get(path)
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	default:
		return "", false
	}
}

// Int reads an integral number at path
func (t Tree) Int(path string) (int64, bool) {
	d := t.Decimal(path)
	if !d.Valid || !d.Decimal.IsInteger() {
		return 0, false
	}
	return d.Decimal.IntPart(), true
}

// Each returns the elements of the array at path as sub-trees
func (t Tree) Each(path string) []Tree {
	v, ok := t.Get(path)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Tree, 0, len(list))
	for _, item := range list {
		out = append(out, Tree{root: item})
	}
	return out
}

// ToDecimal converts a decoded JSON scalar into a decimal
func ToDecimal(v any) decimal.NullDecimal {
	switch n := v.(type) {
	case json.Number:
		return parseDecimal(n.String())
	case string:
		return parseDecimal(strings.TrimSpace(n))
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(n))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(n)))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(n))
	default:
		return decimal.NullDecimal{}
	}
}

func parseDecimal(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// isWildcard reports whether path can yield a match list rather than a single value
func isWildcard(path string) bool {
	return strings.Contains(path, "*") || strings.Contains(path, "..") ||
		strings.Contains(path, "?(") || strings.Contains(path, ":")
}
