// Package middleware normalizes JSON request bodies with jsonmold before they
// reach an http.Handler.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/reoring/jsonmold"
	"github.com/reoring/jsonmold/i18n"
)

// ctxKeyDecoded is a typed context key for storing Decoded[T].
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a Decoded[T] to the context.
func ContextWithDecoded[T any](ctx context.Context, db jsonmold.Decoded[T]) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, db)
}

// DecodedFromContext retrieves a Decoded[T] from context.
func DecodedFromContext[T any](ctx context.Context) (jsonmold.Decoded[T], bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(jsonmold.Decoded[T])
	return v, ok
}

// FromContext returns the normalized body stored by Normalize.
func FromContext(ctx context.Context) (jsonmold.Decoded[any], bool) {
	return DecodedFromContext[any](ctx)
}

// DefaultConvertOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Bodies are capped at 1 MiB
func DefaultConvertOpt() jsonmold.ConvertOpt {
	return jsonmold.ConvertOpt{
		Decode: jsonmold.DecodeOpt{
			Strictness: jsonmold.Strictness{OnDuplicateKey: jsonmold.Error},
			MaxBytes:   1 << 20,
		},
	}
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []jsonmold.Issue) map[string]any {
	return map[string]any{"issues": issues}
}

// Normalize converts the request body against bp. On success the result is
// stored in the request context and the body is replaced by its normalized
// JSON encoding, so downstream handlers may decode it either way. Failures
// are answered with 400 and the Issues payload.
func Normalize(bp jsonmold.Blueprint, opt jsonmold.ConvertOpt) func(http.Handler) http.Handler {
	if opt.Decode.Strictness.OnDuplicateKey == jsonmold.Ignore && opt.Decode.MaxBytes == 0 {
		d := DefaultConvertOpt()
		opt.Decode = d.Decode
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			in, err := readBody(r.Body, opt.Decode)
			if err == nil {
				var dm jsonmold.Decoded[any]
				if dm, err = jsonmold.ConvertWithMeta(r.Context(), in, bp, opt); err == nil {
					var body []byte
					if body, err = json.Marshal(dm.Value); err == nil {
						r = r.WithContext(ContextWithDecoded(r.Context(), dm))
						r.Body = io.NopCloser(bytes.NewReader(body))
						r.ContentLength = int64(len(body))
						r.Header.Set("Content-Length", strconv.Itoa(len(body)))
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			if iss, ok := jsonmold.AsIssues(err); ok {
				writeJSON(w, http.StatusBadRequest, ErrorPayload(iss))
				return
			}
			var fe *jsonmold.FilterError
			if errors.As(err, &fe) {
				writeJSON(w, http.StatusBadRequest, ErrorPayload([]jsonmold.Issue{fe.Issue()}))
				return
			}
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		})
	}
}

func readBody(body io.ReadCloser, dopt jsonmold.DecodeOpt) (any, error) {
	if body == nil || body == http.NoBody {
		return map[string]any{}, nil
	}
	defer body.Close()
	var r io.Reader = body
	if dopt.MaxBytes > 0 {
		r = io.LimitReader(body, dopt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if dopt.MaxBytes > 0 && int64(len(data)) > dopt.MaxBytes {
		return nil, jsonmold.AppendIssues(nil, jsonmold.Issue{Code: jsonmold.CodeTruncated, Path: "/", Message: i18n.T(jsonmold.CodeTruncated, nil)})
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	return jsonmold.DecodeJSON(jsonmold.JSONBytes(data), dopt)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
