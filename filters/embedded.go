package filters

import (
	"context"

	"github.com/reoring/jsonmold"
)

// EmbeddedJSON converts a field holding JSON text against a nested blueprint,
// for payloads that carry a serialized document inside a string. Values that
// are already objects or arrays are converted directly; empty strings and null
// are converted as if the field were an empty object. Malformed JSON text is
// returned as the decoder's Issues.
func EmbeddedJSON(bp jsonmold.Blueprint, opts ...jsonmold.ConvertOpt) jsonmold.Filter {
	return func(ctx context.Context, v any, _ map[string]any, _ *jsonmold.Schema) (any, error) {
		switch t := v.(type) {
		case string:
			if t == "" {
				return jsonmold.Convert(ctx, map[string]any{}, bp, opts...)
			}
			return jsonmold.ConvertJSON(ctx, []byte(t), bp, opts...)
		case nil:
			return jsonmold.Convert(ctx, map[string]any{}, bp, opts...)
		}
		return jsonmold.Convert(ctx, v, bp, opts...)
	}
}
