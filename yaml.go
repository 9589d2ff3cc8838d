package jsonmold

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/jsonmold/i18n"
	eng "github.com/reoring/jsonmold/internal/engine"
)

// DecodeTemplateYAML decodes the first YAML document in data into template
// values, keeping mapping order as *Object. Duplicate keys, depth and size are
// enforced as for JSON.
func DecodeTemplateYAML(data []byte, opts ...DecodeOpt) (any, error) {
	docs, err := decodeYAML(data, lastDecodeOpt(opts), true, 1)
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// DecodeYAML decodes the first YAML document in data into plain values
// (map[string]any, []any, string, bool, int64, float64, nil).
func DecodeYAML(data []byte, opts ...DecodeOpt) (any, error) {
	docs, err := decodeYAML(data, lastDecodeOpt(opts), false, 1)
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// DecodeYAMLAll decodes every document of a multi-document YAML stream into
// plain values.
func DecodeYAMLAll(data []byte, opts ...DecodeOpt) ([]any, error) {
	return decodeYAML(data, lastDecodeOpt(opts), false, -1)
}

func decodeYAML(data []byte, opt DecodeOpt, ordered bool, limit int) ([]any, error) {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, singleIssue(CodeTruncated, "/")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for limit < 0 || len(docs) < limit {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: i18n.T(CodeParseError, nil) + ": " + err.Error(), Cause: err})
		}
		yd := yamlDecoder{opt: opt, ordered: ordered}
		v, err := yd.value(&root, pathRef{}, 0)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
	if len(docs) == 0 {
		return nil, AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: "empty YAML document"})
	}
	return docs, nil
}

type yamlDecoder struct {
	opt     DecodeOpt
	ordered bool
}

func (d *yamlDecoder) value(n *yaml.Node, p pathRef, depth int) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.value(n.Content[0], p, depth)
	case yaml.AliasNode:
		return d.value(n.Alias, p, depth)
	case yaml.MappingNode:
		if err := d.enter(p, depth); err != nil {
			return nil, err
		}
		return d.mapping(n, p, depth+1)
	case yaml.SequenceNode:
		if err := d.enter(p, depth); err != nil {
			return nil, err
		}
		arr := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := d.value(c, p.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return yamlScalar(n), nil
	}
	return nil, nil
}

func (d *yamlDecoder) enter(p pathRef, depth int) error {
	if d.opt.MaxDepth > 0 && depth >= d.opt.MaxDepth {
		return Issues{p.Issue(CodeMaxDepth, i18n.T(CodeMaxDepth, nil), "limit", d.opt.MaxDepth)}
	}
	return nil
}

func (d *yamlDecoder) mapping(n *yaml.Node, p pathRef, depth int) (any, error) {
	obj := eng.NewObject(len(n.Content) / 2)
	first := make(map[string]int, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, vn := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, Issues{p.Issue(CodeParseError, fmt.Sprintf("yaml: line %d: mapping key must be a scalar", k.Line))}
		}
		child := p.Field(k.Value)
		if line, dup := first[k.Value]; dup && d.opt.Strictness.OnDuplicateKey != Ignore {
			iss := child.Issue(CodeDuplicateKey,
				fmt.Sprintf("duplicate YAML key %q at line %d (first at line %d)", k.Value, k.Line, line),
				"line", k.Line, "column", k.Column, "first_line", line)
			if d.opt.OnIssue != nil {
				d.opt.OnIssue(iss)
			}
			if d.opt.Strictness.OnDuplicateKey == Error {
				return nil, Issues{iss}
			}
		}
		first[k.Value] = k.Line
		v, err := d.value(vn, child, depth)
		if err != nil {
			return nil, err
		}
		obj.Set(k.Value, v)
	}
	if d.ordered {
		return obj, nil
	}
	return eng.Plain(obj), nil
}

func yamlScalar(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		switch strings.ToLower(n.Value) {
		case "true":
			return true
		case "false":
			return false
		}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
	case "!!float":
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return f
		}
	}
	return n.Value
}
