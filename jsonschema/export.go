// Package jsonschema renders jsonmold schema trees as JSON Schema (draft-04)
// documents. Attributes outside the draft-04 vocabulary, such as name, alias
// and enums, are emitted with an '@' prefix so they cannot collide with
// reserved keywords. jsonmold.SchemaFromDocument reads such documents back.
package jsonschema

import (
	"slices"
	"sort"

	"github.com/reoring/jsonmold"
)

// Draft4URI is the identifier written to "id" and "$schema" on the root.
const Draft4URI = "http://json-schema.org/draft-04/schema#"

// Draft4Attributes lists the keywords emitted without a prefix.
var Draft4Attributes = []string{
	"$schema", "id", "title", "description", "type", "default", "enum",
	"properties", "required", "additionalProperties", "patternProperties",
	"maxProperties", "minProperties", "dependencies",
	"items", "minItems", "maxItems", "uniqueItems", "additionalItems",
	"minimum", "exclusiveMinimum", "maximum", "exclusiveMaximum", "multipleOf",
	"maxLength", "minLength", "pattern", "format",
	"$ref", "definitions", "allOf", "anyOf", "oneOf", "not",
}

// Document is an ordered JSON object; it marshals to JSON and YAML with keys
// in emission order.
type Document = jsonmold.Object

// ExportOpt customizes Export. The zero value emits the draft-04 envelope
// and prefixes non-draft-04 attributes with '@'.
type ExportOpt struct {
	// Attributes replaces Draft4Attributes as the set of unprefixed names.
	Attributes []string
	// Prefix is prepended to other attribute names (default "@").
	Prefix string
	// ID overrides the root "id" and "$schema" values.
	ID string
	// NoEnvelope omits id, $schema, title and description on the root
	// unless the schema itself sets title or description.
	NoEnvelope bool
}

// Export renders s as an ordered document. Filters are not serializable and
// are left out.
func Export(s *jsonmold.Schema, opts ...ExportOpt) *Document {
	var opt ExportOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	e := exporter{opt: opt}
	if e.opt.Prefix == "" {
		e.opt.Prefix = "@"
	}
	if e.opt.Attributes == nil {
		e.opt.Attributes = Draft4Attributes
	}

	doc := jsonmold.NewObject()
	if !opt.NoEnvelope {
		id := opt.ID
		if id == "" {
			id = Draft4URI
		}
		doc.Set("id", id)
		doc.Set("$schema", id)
		doc.Set("title", "")
		doc.Set("description", "")
	}
	if s == nil {
		return doc
	}
	e.node(doc, s)
	return doc
}

type exporter struct {
	opt ExportOpt
}

func (e exporter) key(name string) string {
	if slices.Contains(e.opt.Attributes, name) {
		return name
	}
	return e.opt.Prefix + name
}

func (e exporter) node(doc *Document, s *jsonmold.Schema) {
	doc.Set(e.key("type"), string(s.Type))
	if s.Name != "" {
		doc.Set(e.key("name"), s.Name)
	}
	if s.Alias != "" {
		doc.Set(e.key("alias"), s.Alias)
	}
	if s.Title != "" {
		doc.Set(e.key("title"), s.Title)
	}
	if s.Description != "" {
		doc.Set(e.key("description"), s.Description)
	}
	if s.HasDefault {
		doc.Set(e.key("default"), jsonmold.Plain(s.Default))
	}
	if len(s.Enums) > 0 {
		doc.Set(e.key("enums"), exportEnums(s.Enums))
	}

	switch s.Type {
	case jsonmold.TypeObject:
		if s.Properties != nil || s.Required != nil {
			req := s.Required
			if req == nil {
				req = []string{}
			}
			doc.Set(e.key("required"), slices.Clone(req))
		}
		if s.Properties != nil {
			props := jsonmold.NewObject()
			for _, k := range s.Properties.Keys() {
				child, _ := s.Properties.Get(k)
				cd := jsonmold.NewObject()
				e.node(cd, child)
				props.Set(k, cd)
			}
			doc.Set(e.key("properties"), props)
		}
	case jsonmold.TypeArray:
		items := jsonmold.NewObject()
		if s.Items != nil {
			e.node(items, s.Items)
		}
		doc.Set(e.key("items"), items)
	}

	keys := make([]string, 0, len(s.Attributes))
	for k := range s.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		doc.Set(e.key(k), jsonmold.Plain(s.Attributes[k]))
	}
}

func exportEnums(enums []jsonmold.Enum) []any {
	out := make([]any, 0, len(enums))
	for _, en := range enums {
		o := jsonmold.NewObject()
		if en.InputType != "" || en.OutputType != "" {
			o.Set("input_value", jsonmold.Plain(en.Name))
			o.Set("output_value", jsonmold.Plain(en.Value))
			if en.InputType != "" {
				o.Set("input_type", string(en.InputType))
			}
			if en.OutputType != "" {
				o.Set("output_type", string(en.OutputType))
			}
		} else {
			o.Set("name", jsonmold.Plain(en.Name))
			o.Set("value", jsonmold.Plain(en.Value))
		}
		out = append(out, o)
	}
	return out
}
