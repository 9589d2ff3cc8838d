// Package jsonmold infers a schema from an example JSON value and converts
// loosely typed input into the shape that schema describes.
//
// - Build turns a template into a *Schema. Template keys may carry a required
//   sign ("*id") and an alias ("user_id@uid"); objects that already look like
//   schema nodes ({"type": "number", "default": 1}) are taken as fragments.
// - Convert walks input against a Blueprint: declared properties are read by
//   alias, remapped through enums, filtered per field or per type, and
//   required ones are default-filled. It coerces rather than validates.
// - Errors use the Issues model (JSON Pointer, code, message).
//
// Design policy:
// - Keep only public APIs in the root package; put token decoding under internal/.
// - Place schema export under jsonschema/, reusable filters under filters/, and the CLI under cmd/jsonmold.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	tpl, _ := jsonmold.DecodeTemplateJSON(jsonmold.JSONBytes(templateJSON))
//	s := jsonmold.Build(tpl)
//	out, err := jsonmold.Convert(ctx, input, jsonmold.FromSchema(s))
//
//	out, err := jsonmold.ConvertJSON(ctx, body, jsonmold.FromSchema(s), jsonmold.ConvertOpt{Redundancy: true})
package jsonmold
