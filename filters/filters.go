// Package filters provides ready-made jsonmold.Filter values for common field
// transforms.
package filters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/reoring/jsonmold"
)

// Identity returns the value unchanged. Set it as a field filter to bypass the
// type-level filter for that field.
func Identity() jsonmold.Filter {
	return func(_ context.Context, v any, _ map[string]any, _ *jsonmold.Schema) (any, error) {
		return v, nil
	}
}

// Chain applies fs in order, feeding each result to the next. The first error
// stops the chain.
func Chain(fs ...jsonmold.Filter) jsonmold.Filter {
	return func(ctx context.Context, v any, rec map[string]any, s *jsonmold.Schema) (any, error) {
		var err error
		for _, f := range fs {
			if f == nil {
				continue
			}
			if v, err = f(ctx, v, rec, s); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
}

// Trim removes leading and trailing white space from strings.
func Trim() jsonmold.Filter { return stringFilter(strings.TrimSpace) }

// Lower lower-cases strings.
func Lower() jsonmold.Filter { return stringFilter(strings.ToLower) }

// Upper upper-cases strings.
func Upper() jsonmold.Filter { return stringFilter(strings.ToUpper) }

// stringFilter applies fn to string values; other values pass through.
func stringFilter(fn func(string) string) jsonmold.Filter {
	return jsonmold.SimpleFilter(func(v any) any {
		if s, ok := v.(string); ok {
			return fn(s)
		}
		return v
	})
}

// TimeRFC3339 normalizes RFC3339 time strings (and time.Time values) to the
// canonical UTC RFC3339Nano form. null passes through; anything that does not
// parse is an error.
func TimeRFC3339() jsonmold.Filter {
	return func(_ context.Context, v any, _ map[string]any, _ *jsonmold.Schema) (any, error) {
		switch t := v.(type) {
		case nil:
			return nil, nil
		case time.Time:
			return formatRFC3339Canonical(t), nil
		case string:
			tm, err := parseRFC3339(t)
			if err != nil {
				return nil, fmt.Errorf("invalid RFC3339 time %q: %w", t, err)
			}
			return formatRFC3339Canonical(tm), nil
		}
		return nil, fmt.Errorf("invalid RFC3339 time: unexpected %T", v)
	}
}

// TimeRFC3339Lenient is TimeRFC3339 that leaves values it cannot parse as they
// are.
func TimeRFC3339Lenient() jsonmold.Filter {
	strict := TimeRFC3339()
	return func(ctx context.Context, v any, rec map[string]any, s *jsonmold.Schema) (any, error) {
		out, err := strict(ctx, v, rec, s)
		if err != nil {
			return v, nil
		}
		return out, nil
	}
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
