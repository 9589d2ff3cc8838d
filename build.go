package jsonmold

import (
	"context"
	"slices"
	"strings"

	eng "github.com/reoring/jsonmold/internal/engine"
)

// Build infers a schema tree from template. Objects become object nodes whose
// keys follow the required/alias sign conventions, arrays become array nodes
// described by their first element, and objects that already look like schema
// nodes are taken as fragments. Build never fails; a template that is
// Undefined yields nil.
func Build(template any, opts ...BuildOpt) *Schema {
	b := builder{opt: resolveBuildOpt(opts)}
	s := b.node(template, &Schema{})
	if s == nil {
		return nil
	}
	if b.opt.Title != "" {
		s.Title = b.opt.Title
	}
	if b.opt.Description != "" {
		s.Description = b.opt.Description
	}
	return s
}

type builder struct {
	opt BuildOpt
}

// node resolves v into s. s carries the name and alias assigned by the parent.
func (b *builder) node(v any, s *Schema) *Schema {
	v = canonical(v)
	switch t := v.(type) {
	case undefined:
		return nil
	case *Schema:
		if t == nil {
			return nil
		}
		return inherit(t.Clone(), s)
	case []any:
		s.Type = TypeArray
		if len(t) > 0 {
			s.Items = b.node(t[0], &Schema{})
		}
		return s
	}
	if IsSchemaLike(v) {
		return b.fragment(v, s)
	}
	if IsObject(v) {
		return b.object(v, s)
	}
	s.Type = TypeOf(v)
	return s
}

func (b *builder) object(v any, s *Schema) *Schema {
	s.Type = TypeObject
	s.Properties = NewProperties()
	s.Required = []string{}
	entries(v, func(raw string, val any) {
		ks := ParseKey(raw, b.opt)
		child := b.node(val, &Schema{Name: ks.Key, Alias: ks.Alias})
		if child == nil {
			return
		}
		if (ks.Required || b.opt.AllRequired) && !slices.Contains(s.Required, ks.Key) {
			s.Required = append(s.Required, ks.Key)
		}
		s.Properties.Set(ks.Key, child)
	})
	return s
}

// fragment copies the attributes of a schema-shaped object onto s. Nested
// properties and items are resolved again as templates so key conventions and
// literal examples keep working inside fragments.
func (b *builder) fragment(v any, s *Schema) *Schema {
	own := &Schema{}
	parts := readFragment(v, own)
	own = inherit(own, s)
	switch own.Type {
	case TypeObject:
		if IsObject(parts.properties) {
			derived := b.object(parts.properties, &Schema{})
			own.Properties = derived.Properties
			own.Required = mergeRequired(derived.Required, parts.required)
		} else {
			own.Required = parts.required
		}
	case TypeArray:
		if parts.hasItems {
			own.Items = b.node(parts.items, &Schema{})
		}
	}
	return own
}

// inherit fills the name and alias chosen by the parent where the node does not
// carry its own.
func inherit(s, from *Schema) *Schema {
	if s.Name == "" {
		s.Name = from.Name
	}
	if s.Alias == "" {
		s.Alias = from.Alias
	}
	return s
}

func mergeRequired(derived, explicit []string) []string {
	out := derived
	for _, k := range explicit {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

// fragmentParts holds the structural members of a schema-shaped object that
// the caller resolves itself.
type fragmentParts struct {
	properties any
	items      any
	hasItems   bool
	required   []string
}

// readFragment copies scalar attributes of the schema-shaped object v onto s.
// Attribute names may carry an '@' prefix. Unknown attributes are kept in
// s.Attributes under their unprefixed name.
func readFragment(v any, s *Schema) fragmentParts {
	var parts fragmentParts
	entries(v, func(raw string, val any) {
		name := strings.TrimPrefix(raw, "@")
		switch name {
		case "type":
			if str, ok := val.(string); ok {
				s.Type = Type(str)
			}
		case "name":
			s.Name, _ = val.(string)
		case "alias":
			s.Alias, _ = val.(string)
		case "title":
			s.Title, _ = val.(string)
		case "description":
			s.Description, _ = val.(string)
		case "default":
			s.Default, s.HasDefault = eng.Plain(val), true
		case "filter":
			s.Filter = asFilter(val)
		case "enums":
			s.Enums = readEnums(val)
		case "required":
			parts.required = stringList(val)
		case "properties":
			parts.properties = val
		case "items":
			parts.items, parts.hasItems = val, true
		default:
			if s.Attributes == nil {
				s.Attributes = map[string]any{}
			}
			s.Attributes[name] = eng.Plain(val)
		}
	})
	return parts
}

// asFilter accepts the function shapes a template may carry.
func asFilter(v any) Filter {
	switch f := v.(type) {
	case Filter:
		return f
	case func(context.Context, any, map[string]any, *Schema) (any, error):
		return f
	case func(any) any:
		return SimpleFilter(f)
	case func(any, map[string]any, *Schema) any:
		return func(_ context.Context, v any, rec map[string]any, s *Schema) (any, error) {
			return f(v, rec, s), nil
		}
	}
	return nil
}

// readEnums reads remap rules in either the {name, value} or the
// {input_value, output_value, input_type, output_type} form.
func readEnums(v any) []Enum {
	if t, ok := v.([]Enum); ok {
		return slices.Clone(t)
	}
	if t, ok := asArray(v); ok {
		out := make([]Enum, 0, len(t))
		for _, item := range t {
			if !IsObject(item) {
				continue
			}
			var e Enum
			entries(item, func(k string, val any) {
				switch k {
				case "name", "input_value":
					e.Name = eng.Plain(val)
				case "value", "output_value":
					e.Value = eng.Plain(val)
				case "input_type":
					if str, ok := val.(string); ok {
						e.InputType = Type(str)
					}
				case "output_type":
					if str, ok := val.(string); ok {
						e.OutputType = Type(str)
					}
				}
			})
			out = append(out, e)
		}
		return out
	}
	return nil
}

func stringList(v any) []string {
	if t, ok := v.([]string); ok {
		return slices.Clone(t)
	}
	t, ok := asArray(v)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(t))
	for _, x := range t {
		if s, ok := x.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
