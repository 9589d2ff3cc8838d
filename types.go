package jsonmold

import (
	"log/slog"
)

// Type names one of the six JSON value kinds a schema node can describe.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeNull    Type = "null"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

// Types lists the supported type names in their canonical order.
var Types = []Type{TypeString, TypeNumber, TypeBoolean, TypeNull, TypeObject, TypeArray}

// Valid reports whether t is one of the six supported type names.
func (t Type) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeNull, TypeObject, TypeArray:
		return true
	}
	return false
}

// Primitive reports whether t is a scalar type whose default can be configured.
func (t Type) Primitive() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeNull:
		return true
	}
	return false
}

// NumberMode selects the Go representation of JSON numbers, both for values
// produced by a Source and for values produced by the number filter.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // Represent numbers as float64 (with potential precision loss).
	NumberJSONNumber                   // Represent numbers as json.Number, keeping the textual form.
)

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys while decoding JSON.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
}

// DecodeOpt bundles JSON decoding options.
type DecodeOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	// OnIssue receives every enforcement issue as it is detected, including
	// duplicate keys under Warn, which do not stop decoding.
	OnIssue func(Issue)
}

// BuildOpt configures schema inference from templates.
type BuildOpt struct {
	// RequiredSign marks a required property when it prefixes a template key.
	// Zero selects '*'. Use NoSign to disable the convention.
	RequiredSign rune
	// AliasSign separates the output key from the input alias in a template
	// key ("user_id@uid"). Zero selects '@'. Use NoSign to disable it.
	AliasSign rune
	// AllRequired marks every inferred property as required.
	AllRequired bool
	// Title and Description are recorded on the root node.
	Title       string
	Description string
}

// NoSign disables a key convention when set as RequiredSign or AliasSign.
const NoSign rune = -1

const (
	DefaultRequiredSign = '*'
	DefaultAliasSign    = '@'
)

func resolveBuildOpt(opts []BuildOpt) BuildOpt {
	var opt BuildOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.RequiredSign == 0 {
		opt.RequiredSign = DefaultRequiredSign
	}
	if opt.AliasSign == 0 {
		opt.AliasSign = DefaultAliasSign
	}
	return opt
}

// PresenceOpt narrows the presence map returned by ConvertWithMeta to JSON
// Pointer prefixes.
type PresenceOpt struct {
	Include []string
	Exclude []string
}

// ConvertOpt configures a conversion. The zero value converts with the static
// defaults: empty-value defaults per type, the built-in type filters, no
// redundancy and float64 numbers.
type ConvertOpt struct {
	// Defaults overrides the fallback value per primitive type. Entries for
	// object and array are ignored; those default to {} and [].
	Defaults map[Type]any
	// Filters overrides the type-level filter applied when a property has no
	// field-level filter. A nil entry disables the filter for that type.
	Filters map[Type]Filter
	// NoDefaultFilters drops the built-in type filters so only Filters apply.
	NoDefaultFilters bool
	// Redundancy copies input fields that the schema does not declare into
	// the output under their original keys.
	Redundancy bool
	// FilterArrayItems applies the item filter to each element of arrays
	// whose items are not objects. Those arrays pass through untouched otherwise.
	FilterArrayItems bool
	// NumberMode selects the representation produced by the number filter.
	NumberMode NumberMode
	// MaxDepth bounds the nesting depth of the walk (0 = unbounded).
	MaxDepth int
	// Build is used when the blueprint is a template that must be inferred.
	Build BuildOpt
	// Decode is used by ConvertJSON and ConvertReader.
	Decode DecodeOpt
	// Presence filters the map returned by ConvertWithMeta.
	Presence PresenceOpt
	// Logger receives debug traces of defaults, enum remaps and filters.
	Logger *slog.Logger
}
