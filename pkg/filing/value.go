// Package filing models raw lobbying disclosure filings as decoded JSON
// values with explicit optional-field access. Every accessor reports
// presence alongside the value, so callers never rely on ambient nil
// checks to distinguish "absent" from "present but null".
package filing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value wraps one decoded JSON value. The zero Value is absent.
type Value struct {
	raw     any
	present bool
}

// Absent returns the absent Value.
func Absent() Value {
	return Value{}
}

// Wrap wraps a decoded JSON value. A nil value is treated as absent,
// collapsing JSON null and missing-field into one state.
func Wrap(raw any) Value {
	if raw == nil {
		return Value{}
	}
	return Value{raw: raw, present: true}
}

// Present reports whether the value exists and is non-null.
func (v Value) Present() bool {
	return v.present
}

// Raw returns the underlying decoded value, or nil if absent.
func (v Value) Raw() any {
	if !v.present {
		return nil
	}
	return v.raw
}

// Str returns the value as a string. Only genuine JSON strings qualify;
// numbers and booleans are not silently stringified here.
func (v Value) Str() (string, bool) {
	if !v.present {
		return "", false
	}
	s, ok := v.raw.(string)
	return s, ok
}

// Text returns the value coerced to its string form. Strings pass through,
// numbers and booleans are formatted, everything else fails. Used where the
// source data mixes types in a field that is logically textual, such as
// covered positions.
func (v Value) Text() (string, bool) {
	if !v.present {
		return "", false
	}
	switch raw := v.raw.(type) {
	case string:
		return raw, true
	case json.Number:
		return raw.String(), true
	case float64:
		return strconv.FormatFloat(raw, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(raw), true
	default:
		return "", false
	}
}

// Int returns the value as an integer, coercing JSON numbers and numeric
// strings. A fractional number or non-numeric string fails.
func (v Value) Int() (int, bool) {
	if !v.present {
		return 0, false
	}
	switch raw := v.raw.(type) {
	case int:
		return raw, true
	case int64:
		return int(raw), true
	case float64:
		n := int(raw)
		if float64(n) != raw {
			return 0, false
		}
		return n, true
	case json.Number:
		n, err := raw.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// List returns the value as a sequence of Values.
func (v Value) List() ([]Value, bool) {
	if !v.present {
		return nil, false
	}
	raw, ok := v.raw.([]any)
	if !ok {
		return nil, false
	}
	items := make([]Value, len(raw))
	for i, item := range raw {
		items[i] = Wrap(item)
	}
	return items, true
}

// Object returns the value as an Object.
func (v Value) Object() (Object, bool) {
	if !v.present {
		return nil, false
	}
	raw, ok := v.raw.(map[string]any)
	if !ok {
		return nil, false
	}
	return Object(raw), true
}

// Field returns the named field of an object value. Absent if the value is
// not an object, the field is missing, or the field is null.
func (v Value) Field(name string) Value {
	obj, ok := v.Object()
	if !ok {
		return Absent()
	}
	return obj.Field(name)
}

// Object is a decoded JSON object.
type Object map[string]any

// Field returns the named field. A missing field and a null field are both
// absent.
func (o Object) Field(name string) Value {
	raw, ok := o[name]
	if !ok {
		return Absent()
	}
	return Wrap(raw)
}

// String implements fmt.Stringer for diagnostics.
func (v Value) String() string {
	if !v.present {
		return "<absent>"
	}
	return fmt.Sprintf("%v", v.raw)
}
