package jsonmold

import (
	"bytes"
	"context"
	"errors"
	"io"

	eng "github.com/reoring/jsonmold/internal/engine"
)

// Object is an insertion-ordered JSON object. Template decoding produces it so
// that property order, the required list and default materialization follow
// the order in which keys were written.
type Object = eng.Object

// NewObject returns an empty ordered object.
func NewObject() *Object { return eng.NewObject(0) }

// Plain converts every *Object inside v into map[string]any and copies maps
// and slices, returning a tree that shares no containers with v.
func Plain(v any) any { return eng.Plain(v) }

// DecodeJSON consumes src and returns plain Go values: map[string]any, []any,
// string, bool, nil and json.Number (or float64 when the Source reports
// NumberFloat64).
func DecodeJSON(src Source, opts ...DecodeOpt) (any, error) {
	return decodeSource(src, lastDecodeOpt(opts), false)
}

// DecodeTemplateJSON is DecodeJSON for templates and schema documents: objects
// are decoded as *Object to keep key order.
func DecodeTemplateJSON(src Source, opts ...DecodeOpt) (any, error) {
	return decodeSource(src, lastDecodeOpt(opts), true)
}

// ConvertJSON decodes data with the current JSON driver and converts it
// against bp.
func ConvertJSON(ctx context.Context, data []byte, bp Blueprint, opts ...ConvertOpt) (any, error) {
	return ConvertReader(ctx, bytes.NewReader(data), bp, opts...)
}

// ConvertReader decodes r and converts the result against bp. When
// Decode.MaxBytes is set the size cap is enforced up front.
func ConvertReader(ctx context.Context, r io.Reader, bp Blueprint, opts ...ConvertOpt) (any, error) {
	opt := lastConvertOpt(opts)
	in, err := readInput(r, opt.Decode)
	if err != nil {
		return nil, err
	}
	return Convert(ctx, in, bp, opts...)
}

func readInput(r io.Reader, dopt DecodeOpt) (any, error) {
	if dopt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, dopt.MaxBytes+1))
		if err != nil {
			return nil, AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: err.Error(), Cause: err})
		}
		if int64(len(data)) > dopt.MaxBytes {
			return nil, singleIssue(CodeTruncated, "/")
		}
		return DecodeJSON(JSONBytes(data), dopt)
	}
	return DecodeJSON(JSONReader(r), dopt)
}

func lastDecodeOpt(opts []DecodeOpt) DecodeOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return DecodeOpt{}
}

func decodeSource(src Source, opt DecodeOpt, ordered bool) (any, error) {
	ts := engineTokenSource(src)
	if opt.Strictness.OnDuplicateKey != Ignore || opt.MaxDepth > 0 || opt.MaxBytes > 0 {
		ts = eng.WrapWithEnforcement(ts, eng.EnforceOptions{
			OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
			MaxDepth:    opt.MaxDepth,
			MaxBytes:    opt.MaxBytes,
			IssueSink:   issueSink(opt.OnIssue),
		})
	}
	v, err := eng.Decode(ts, eng.DecodeOptions{
		Ordered: ordered,
		Float64: src.NumberMode() == NumberFloat64,
	})
	if err != nil {
		return nil, toIssues(err)
	}
	return v, nil
}

func issueSink(fn func(Issue)) func(eng.SimpleIssue) {
	if fn == nil {
		return nil
	}
	return func(si eng.SimpleIssue) {
		fn(Issue{Code: si.Code, Path: si.Path, Message: si.Message})
	}
}

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, Issue{Code: ie.Code, Path: ie.Path, Message: ie.Message})
	}
	if errors.Is(err, io.EOF) {
		return AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: "unexpected end of input", Cause: err})
	}
	return AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: err.Error(), Cause: err})
}
