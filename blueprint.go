package jsonmold

// Blueprint is what Convert walks input against: either a built schema or a
// template that is inferred on first use. The choice is made once, when the
// Blueprint is constructed.
type Blueprint struct {
	schema   *Schema
	template any
	isSchema bool
}

// FromSchema wraps an already-built schema.
func FromSchema(s *Schema) Blueprint {
	return Blueprint{schema: s, isSchema: true}
}

// FromTemplate wraps an example value whose schema is inferred with Build.
func FromTemplate(template any) Blueprint {
	return Blueprint{template: template}
}

// Classify picks the constructor for v: *Schema values and schema-shaped
// objects become schema blueprints, everything else a template. A
// schema-shaped object is read through Build, which accepts fragments at the
// root.
func Classify(v any) Blueprint {
	switch t := v.(type) {
	case Blueprint:
		return t
	case *Schema:
		return FromSchema(t)
	}
	if IsSchemaLike(v) {
		return FromSchema(Build(v))
	}
	return FromTemplate(v)
}

// IsZero reports whether the blueprint carries neither a schema nor a
// template. Convert returns the input unchanged for a zero blueprint.
func (bp Blueprint) IsZero() bool {
	if bp.isSchema {
		return bp.schema == nil
	}
	switch t := canonical(bp.template).(type) {
	case nil, undefined:
		return true
	case map[string]any:
		return len(t) == 0
	case *Object:
		return t.Len() == 0
	}
	return false
}

// IsTemplate reports whether the blueprint was built from a template.
func (bp Blueprint) IsTemplate() bool { return !bp.isSchema && !bp.IsZero() }

// Schema returns the schema the blueprint resolves to. Template blueprints are
// built with opt on every call; callers converting many inputs should resolve
// once and reuse FromSchema.
func (bp Blueprint) Schema(opts ...BuildOpt) *Schema {
	if bp.isSchema {
		return bp.schema
	}
	if bp.IsZero() {
		return nil
	}
	return Build(bp.template, opts...)
}
