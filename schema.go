package jsonmold

import (
	"context"
	"slices"

	eng "github.com/reoring/jsonmold/internal/engine"
)

// Filter transforms a present input value before it is written to the output.
// record is the input object the value was read from and must not be
// modified; s is the schema node being resolved. Returning an error aborts the
// conversion.
type Filter func(ctx context.Context, value any, record map[string]any, s *Schema) (any, error)

// SimpleFilter adapts a single-argument transform into a Filter.
func SimpleFilter(fn func(any) any) Filter {
	return func(_ context.Context, v any, _ map[string]any, _ *Schema) (any, error) {
		return fn(v), nil
	}
}

// Enum is one remap rule. Name is the input value to match and Value the
// output value substituted on match. When InputType or OutputType is set the
// matched and substituted values are coerced to that type first.
type Enum struct {
	Name       any
	Value      any
	InputType  Type
	OutputType Type
}

// Schema is one node of the schema tree.
type Schema struct {
	Type Type
	// Name is the canonical output key. Alias, when set, is the key read from input.
	Name  string
	Alias string
	// Default is used only when HasDefault is true.
	Default    any
	HasDefault bool
	Filter     Filter
	Enums      []Enum

	Title       string
	Description string

	// Object nodes.
	Properties *Properties
	Required   []string

	// Array nodes.
	Items *Schema

	// Attributes holds every other attribute (format, minimum, custom keys).
	// They are carried through export and never affect conversion.
	Attributes map[string]any
}

// IsObject reports whether s is object-shaped: type object with a property map.
func (s *Schema) IsObject() bool {
	return s != nil && s.Type == TypeObject && s.Properties != nil
}

// IsArray reports whether s is array-shaped: type array with an items schema.
func (s *Schema) IsArray() bool {
	return s != nil && s.Type == TypeArray && s.Items != nil
}

// InputKey returns the key used to read this node from an input object.
func (s *Schema) InputKey() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// IsRequired reports whether key is listed in Required.
func (s *Schema) IsRequired(key string) bool {
	return slices.Contains(s.Required, key)
}

// WithDefault sets an explicit default and returns s for chaining.
func (s *Schema) WithDefault(v any) *Schema {
	s.Default, s.HasDefault = v, true
	return s
}

// Clone returns a deep copy of s. Filters are shared.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.Default = eng.Plain(s.Default)
	c.Enums = slices.Clone(s.Enums)
	c.Required = slices.Clone(s.Required)
	c.Items = s.Items.Clone()
	if s.Properties != nil {
		c.Properties = NewProperties()
		for _, k := range s.Properties.keys {
			c.Properties.Set(k, s.Properties.m[k].Clone())
		}
	}
	if s.Attributes != nil {
		c.Attributes = make(map[string]any, len(s.Attributes))
		for k, v := range s.Attributes {
			c.Attributes[k] = eng.Plain(v)
		}
	}
	return &c
}

// Properties is the ordered property map of an object node.
type Properties struct {
	keys []string
	m    map[string]*Schema
}

// NewProperties returns an empty property map.
func NewProperties() *Properties {
	return &Properties{m: map[string]*Schema{}}
}

// Set stores s under key. Replacing keeps the original position.
func (p *Properties) Set(key string, s *Schema) {
	if p.m == nil {
		p.m = map[string]*Schema{}
	}
	if _, ok := p.m[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.m[key] = s
}

// Get returns the child schema stored under key.
func (p *Properties) Get(key string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}
	s, ok := p.m[key]
	return s, ok
}

// Delete removes key.
func (p *Properties) Delete(key string) {
	if p == nil {
		return
	}
	if _, ok := p.m[key]; !ok {
		return
	}
	delete(p.m, key)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == key })
}

// Keys returns the property keys in declaration order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.keys)
}

// Len reports the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// each visits properties in declaration order.
func (p *Properties) each(fn func(key string, s *Schema)) {
	if p == nil {
		return
	}
	for _, k := range p.keys {
		fn(k, p.m[k])
	}
}
