package jsonmold

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	eng "github.com/reoring/jsonmold/internal/engine"
)

// undefined marks a template branch that yields no schema.
type undefined struct{}

// Undefined can be placed anywhere in a template to omit that branch from the
// inferred schema.
var Undefined any = undefined{}

// TypeOf classifies a value: nil is null; strings, booleans, every Go numeric
// kind and json.Number map to their JSON type; maps with string keys and
// *Object are objects; slices and arrays are arrays; anything else is treated
// as a string.
func TypeOf(v any) Type {
	switch v.(type) {
	case nil:
		return TypeNull
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case json.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeNumber
	}
	switch canonical(v).(type) {
	case nil:
		return TypeNull
	case map[string]any, *Object:
		return TypeObject
	case []any:
		return TypeArray
	}
	return TypeString
}

// canonical returns typed Go slices and string-keyed maps as []any and
// map[string]any. Values already in that form are returned as is.
func canonical(v any) any {
	switch v.(type) {
	case nil, string, bool, float64, json.Number, []any, map[string]any, *Object:
		return v
	}
	return eng.Plain(v)
}

// IsObject reports whether v is a JSON object (a string-keyed map or *Object).
func IsObject(v any) bool {
	switch t := canonical(v).(type) {
	case map[string]any:
		return true
	case *Object:
		return t != nil
	}
	return false
}

// IsArray reports whether v is a JSON array (any slice or array but []byte).
func IsArray(v any) bool {
	_, ok := asArray(v)
	return ok
}

// IsEmptyObject reports whether v is an object without keys.
func IsEmptyObject(v any) bool {
	switch t := canonical(v).(type) {
	case map[string]any:
		return len(t) == 0
	case *Object:
		return t != nil && t.Len() == 0
	}
	return false
}

// IsEmptyArray reports whether v is an array without elements.
func IsEmptyArray(v any) bool {
	a, ok := asArray(v)
	return ok && len(a) == 0
}

// IsSchemaLike reports whether v is an object whose "type" member names one of
// the six supported types, i.e. an already-built schema fragment or document.
func IsSchemaLike(v any) bool {
	t, ok := lookup(v, "type")
	if !ok {
		return false
	}
	s, ok := t.(string)
	return ok && Type(s).Valid()
}

// lookup reads key from a map or *Object.
func lookup(v any, key string) (any, bool) {
	switch t := canonical(v).(type) {
	case map[string]any:
		vv, ok := t[key]
		return vv, ok
	case *Object:
		return t.Get(key)
	}
	return nil, false
}

// entries visits the members of a map (sorted keys) or *Object (insertion order).
func entries(v any, fn func(k string, v any)) {
	switch t := canonical(v).(type) {
	case map[string]any:
		for _, k := range eng.SortedKeys(t) {
			fn(k, t[k])
		}
	case *Object:
		t.Range(func(k string, v any) bool {
			fn(k, v)
			return true
		})
	}
}

// asRecord returns v as a plain map when it is an object.
func asRecord(v any) (map[string]any, bool) {
	switch t := canonical(v).(type) {
	case map[string]any:
		return t, true
	case *Object:
		if t == nil {
			return nil, false
		}
		m, _ := eng.Plain(t).(map[string]any)
		return m, true
	}
	return nil, false
}

// asArray returns v as []any when it is a slice or array.
func asArray(v any) ([]any, bool) {
	a, ok := canonical(v).([]any)
	return a, ok
}

// toFloat extracts a float64 from any numeric representation.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// looseEqual compares two decoded values; numbers compare by value regardless
// of representation.
func looseEqual(a, b any) bool {
	if TypeOf(a) == TypeNumber && TypeOf(b) == TypeNumber {
		fa, okA := toFloat(a)
		fb, okB := toFloat(b)
		return okA && okB && !math.IsNaN(fa) && fa == fb
	}
	return reflect.DeepEqual(eng.Plain(a), eng.Plain(b))
}
