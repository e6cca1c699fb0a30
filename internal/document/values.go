// This file contains the logic for converting an arbitrary cty.Value into its
// native Go representation (interface{}), plus small accessors for walking
// the resulting weakly-typed tree.

package document

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ctyToNative recursively converts a cty.Value to its most natural Go
// counterpart: string, float64, bool, []any or map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	// A nil or unknown value becomes a nil interface{}.
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		// float64 is the most sensible generic representation for a JSON
		// number; declared field data types re-type values later.
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert cty.Number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return nil, fmt.Errorf("internal error: failed to convert cty.Bool to bool: %w", err)
		}
		return b, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0)
		it := v.ElementIterator()
		for it.Next() {
			_, val := it.Element()
			nativeVal, err := ctyToNative(val)
			if err != nil {
				return nil, err
			}
			slice = append(slice, nativeVal)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		goMap := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, val := it.Element()
			keyStr := key.AsString()
			nativeVal, err := ctyToNative(val)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", keyStr, err)
			}
			goMap[keyStr] = nativeVal
		}
		return goMap, nil

	default:
		return nil, fmt.Errorf("unsupported cty type in document: %s", ty.FriendlyName())
	}
}

// String returns the value under key if it is a string, else "".
func String(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// Object returns the value under key if it is an object, else nil.
func Object(m map[string]any, key string) map[string]any {
	o, _ := m[key].(map[string]any)
	return o
}

// Slice normalizes the value under key to a list: a missing key yields nil, a
// list is returned as-is and any other value is wrapped in a singleton. The
// document format allows single values wherever a list is accepted.
func Slice(m map[string]any, key string) []any {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.([]any); ok {
		return s
	}
	return []any{v}
}

// Strings normalizes the value under key to a list of strings, dropping any
// non-string entries.
func Strings(m map[string]any, key string) []string {
	var out []string
	for _, v := range Slice(m, key) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Objects normalizes the value under key to a list of objects, dropping any
// non-object entries.
func Objects(m map[string]any, key string) []map[string]any {
	var out []map[string]any
	for _, v := range Slice(m, key) {
		if o, ok := v.(map[string]any); ok {
			out = append(out, o)
		}
	}
	return out
}
