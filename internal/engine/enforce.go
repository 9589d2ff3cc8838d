package engine

import (
	"strconv"
	"strings"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// Issue codes produced by the enforcement layer.
const (
	CodeDuplicateKey = "duplicate_key"
	CodeMaxDepth     = "max_depth"
	CodeTruncated    = "truncated"
)

// SimpleIssue is the enforcement layer's issue; the root package lifts it
// into its own Issue type.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is returned by the wrapped source when enforcement stops decoding.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int   // 0 = unbounded
	MaxBytes    int64 // 0 = unbounded
	// IssueSink receives every issue as it is detected, fatal or not.
	IssueSink func(SimpleIssue)
}

// WrapWithEnforcement returns a TokenSource that checks duplicate keys,
// container depth and consumed bytes while tokens stream through.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcer{inner: inner, opt: opt}
}

// container tracks one open object or array.
type container struct {
	path   string
	object bool
	keys   map[string]struct{} // object only
	key    string              // pending member key, object only
	next   int                 // next element index, array only
}

type enforcer struct {
	inner TokenSource
	opt   EnforceOptions
	open  []container
}

func (e *enforcer) Location() int64 { return e.inner.Location() }

func (e *enforcer) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	if err := e.observe(tok); err != nil {
		return Token{}, err
	}
	if e.opt.MaxBytes > 0 {
		if off := e.inner.Location(); off > e.opt.MaxBytes {
			return Token{}, IssueError{e.report(CodeTruncated, e.here(), "max bytes exceeded")}
		}
	}
	return tok, nil
}

func (e *enforcer) observe(tok Token) error {
	switch tok.Kind {
	case KindKey:
		top := e.top()
		if top == nil || !top.object {
			return nil
		}
		if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
			si := e.report(CodeDuplicateKey, pointerJoin(top.path, tok.String), "key '"+tok.String+"' duplicated")
			if e.opt.OnDuplicate == DupError {
				return IssueError{si}
			}
		}
		top.keys[tok.String] = struct{}{}
		top.key = tok.String
	case KindBeginObject, KindBeginArray:
		c := container{path: e.valuePath(), object: tok.Kind == KindBeginObject}
		if c.object {
			c.keys = map[string]struct{}{}
		}
		e.open = append(e.open, c)
		if e.opt.MaxDepth > 0 && len(e.open) > e.opt.MaxDepth {
			return IssueError{e.report(CodeMaxDepth, orRoot(c.path), "max depth exceeded")}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.open); n > 0 {
			e.open = e.open[:n-1]
		}
	default:
		e.valuePath()
	}
	return nil
}

func (e *enforcer) top() *container {
	if len(e.open) == 0 {
		return nil
	}
	return &e.open[len(e.open)-1]
}

// valuePath returns the pointer of the value starting at the current token
// and moves the enclosing container past it.
func (e *enforcer) valuePath() string {
	top := e.top()
	if top == nil {
		return ""
	}
	if top.object {
		p := pointerJoin(top.path, top.key)
		top.key = ""
		return p
	}
	p := pointerJoin(top.path, strconv.Itoa(top.next))
	top.next++
	return p
}

// here is the pointer of the innermost open container.
func (e *enforcer) here() string {
	if top := e.top(); top != nil {
		return orRoot(top.path)
	}
	return "/"
}

func (e *enforcer) report(code, path, msg string) SimpleIssue {
	si := SimpleIssue{Code: code, Path: path, Message: msg}
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
	return si
}

func orRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func pointerJoin(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}
