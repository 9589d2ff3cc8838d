package jsonmold

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cast"

	eng "github.com/reoring/jsonmold/internal/engine"
)

// coercer implements the built-in type filters. It depends on the resolved
// number mode and the number default, so one is made per conversion.
type coercer struct {
	mode          NumberMode
	numberDefault any
}

func (c coercer) coerce(t Type, v any) any {
	switch t {
	case TypeString:
		return toStringValue(v)
	case TypeNumber:
		return c.toNumber(v)
	case TypeBoolean:
		return toBooleanValue(v)
	case TypeNull:
		return nil
	case TypeArray:
		if a, ok := asArray(v); ok {
			return a
		}
		return []any{}
	case TypeObject:
		if m, ok := asRecord(v); ok {
			return m
		}
		return map[string]any{}
	}
	return v
}

// filters exposes the built-in coercions as type-level filters.
func (c coercer) filters() map[Type]Filter {
	out := make(map[Type]Filter, len(Types))
	for _, t := range Types {
		out[t] = func(_ context.Context, v any, _ map[string]any, _ *Schema) (any, error) {
			return c.coerce(t, v), nil
		}
	}
	return out
}

func toStringValue(v any) any {
	switch t := canonical(v).(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case map[string]any, []any, *Object:
		b, err := gojson.Marshal(eng.Plain(t))
		if err != nil {
			return ""
		}
		return string(b)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

func (c coercer) toNumber(v any) any {
	switch t := v.(type) {
	case nil:
		return c.number(0)
	case bool:
		if t {
			return c.number(1)
		}
		return c.number(0)
	case json.Number:
		if c.mode == NumberJSONNumber {
			return t
		}
		f, err := t.Float64()
		if err != nil || !finite(f) {
			return c.numberDefault
		}
		return f
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return c.number(0)
		}
		f, err := cast.ToFloat64E(s)
		if err != nil || !finite(f) {
			return c.numberDefault
		}
		if c.mode == NumberJSONNumber {
			if _, err := strconv.ParseFloat(s, 64); err == nil && json.Valid([]byte(s)) {
				return json.Number(s)
			}
		}
		return c.number(f)
	}
	if f, ok := toFloat(v); ok && finite(f) {
		return c.number(f)
	}
	return c.numberDefault
}

// finite rejects NaN and ±Inf, which JSON cannot represent.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (c coercer) number(f float64) any {
	if c.mode == NumberJSONNumber {
		return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return f
}

// toBooleanValue follows JavaScript truthiness with two string exceptions:
// "false" and "0" are false.
func toBooleanValue(v any) any {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		switch t {
		case "true":
			return true
		case "false", "0", "":
			return false
		}
		return true
	}
	if f, ok := toFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}
