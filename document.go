package jsonmold

// SchemaFromDocument reads a schema document, such as one produced by
// jsonschema.Export, back into a *Schema. Attributes are accepted with or
// without the '@' prefix. Every node must be an object whose "type" is one of
// the six supported names; other nodes are reported as invalid_schema issues.
func SchemaFromDocument(doc any) (*Schema, error) {
	var iss Issues
	s := readDocNode(doc, "", pathRef{}, &iss)
	if len(iss) > 0 {
		return nil, iss
	}
	delete(s.Attributes, "id")
	delete(s.Attributes, "$schema")
	if len(s.Attributes) == 0 {
		s.Attributes = nil
	}
	return s, nil
}

// ReadSchemaJSON decodes a JSON schema document with the current JSON driver.
func ReadSchemaJSON(data []byte, opts ...DecodeOpt) (*Schema, error) {
	doc, err := DecodeTemplateJSON(JSONBytes(data), opts...)
	if err != nil {
		return nil, err
	}
	return SchemaFromDocument(doc)
}

// ReadSchemaYAML decodes a YAML schema document.
func ReadSchemaYAML(data []byte) (*Schema, error) {
	doc, err := DecodeTemplateYAML(data)
	if err != nil {
		return nil, err
	}
	return SchemaFromDocument(doc)
}

func readDocNode(v any, key string, p pathRef, iss *Issues) *Schema {
	if !IsSchemaLike(v) {
		*iss = AppendIssues(*iss, p.Issue(CodeInvalidSchema, "schema node must be an object with a supported type"))
		return nil
	}
	s := &Schema{}
	parts := readFragment(v, s)
	if s.Name == "" {
		s.Name = key
	}
	switch s.Type {
	case TypeObject:
		s.Required = parts.required
		if IsObject(parts.properties) {
			s.Properties = NewProperties()
			pp := p.Field("properties")
			entries(parts.properties, func(k string, child any) {
				if cs := readDocNode(child, k, pp.Field(k), iss); cs != nil {
					s.Properties.Set(k, cs)
				}
			})
		}
	case TypeArray:
		if parts.hasItems && parts.items != nil && !IsEmptyObject(parts.items) {
			s.Items = readDocNode(parts.items, "", p.Field("items"), iss)
		}
	}
	return s
}
