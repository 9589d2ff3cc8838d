package jsonmold

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/jsonmold/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeParseError    = "parse_error"
	CodeDuplicateKey  = "duplicate_key"
	CodeTruncated     = "truncated"
	CodeMaxDepth      = "max_depth"
	CodeFilterFailed  = "filter_failed"
	CodeInvalidSchema = "invalid_schema"
)

// Issue represents a single decoding or conversion problem.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters for i18n and observability.
	Params map[string]any
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. max_depth at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// FilterError wraps an error returned by a caller-supplied filter together
// with the output path being resolved.
type FilterError struct {
	Path string
	Err  error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("jsonmold: filter at %s: %v", e.Path, e.Err)
}

func (e *FilterError) Unwrap() error { return e.Err }

// Issue projects the filter failure into the Issue model.
func (e *FilterError) Issue() Issue {
	return Issue{Path: e.Path, Code: CodeFilterFailed, Message: i18n.T(CodeFilterFailed, nil), Cause: e.Err}
}

func singleIssue(code, path string) Issues {
	if path == "" {
		path = "/"
	}
	return AppendIssues(nil, Issue{Code: code, Path: path, Message: i18n.T(code, nil)})
}
