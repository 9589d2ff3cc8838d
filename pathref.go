package jsonmold

import (
	"fmt"
	"strconv"
	"strings"
)

// pathRef builds JSON Pointers (RFC 6901) for output positions. Each step
// returns a new value, so sibling branches never share a backing array.
type pathRef struct {
	parts []string
}

func (p pathRef) Field(name string) pathRef {
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return pathRef{parts: append(p.parts[:len(p.parts):len(p.parts)], esc)}
}

func (p pathRef) Index(i int) pathRef {
	return pathRef{parts: append(p.parts[:len(p.parts):len(p.parts)], strconv.Itoa(i))}
}

func (p pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

func (p pathRef) Depth() int { return len(p.parts) }

func (p pathRef) Issue(code, msg string, kv ...any) Issue {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: m}
}
