package jsonmold

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/reoring/jsonmold/i18n"
	eng "github.com/reoring/jsonmold/internal/engine"
)

// Convert walks input against the blueprint and returns a value shaped like
// the schema. Declared properties are read by alias (or name), remapped through
// enums, filtered and recursed into; absent required properties receive their
// defaults; absent optional ones are omitted. Input of the wrong shape is
// coerced to {} or [] rather than rejected. input is never modified.
//
// Errors come only from filters (*FilterError), ctx cancellation, and
// ConvertOpt.MaxDepth (Issues with code max_depth).
func Convert(ctx context.Context, input any, bp Blueprint, opts ...ConvertOpt) (any, error) {
	d, err := convert(ctx, input, bp, lastConvertOpt(opts), false)
	if err != nil {
		return nil, err
	}
	return d.Value, nil
}

// ConvertWithMeta is Convert that also reports, per output JSON Pointer,
// whether the value was seen in the input, null, defaulted, enum-mapped or
// copied as a redundant field.
func ConvertWithMeta(ctx context.Context, input any, bp Blueprint, opts ...ConvertOpt) (Decoded[any], error) {
	opt := lastConvertOpt(opts)
	d, err := convert(ctx, input, bp, opt, true)
	if err != nil {
		return Decoded[any]{}, err
	}
	d.Presence = applyPresenceOptions(d.Presence, opt.Presence)
	return d, nil
}

func lastConvertOpt(opts []ConvertOpt) ConvertOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return ConvertOpt{}
}

func convert(ctx context.Context, input any, bp Blueprint, opt ConvertOpt, meta bool) (Decoded[any], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if bp.IsZero() {
		return Decoded[any]{Value: input}, nil
	}
	s := bp.Schema(opt.Build)
	if s == nil {
		return Decoded[any]{Value: input}, nil
	}
	c := &converter{ctx: ctx, cfg: resolveConvertOpt(opt)}
	if meta {
		c.presence = PresenceMap{"/": PresenceSeen}
	}

	var (
		out any
		err error
	)
	switch {
	case s.IsObject():
		out, err = c.object(input, s, pathRef{})
	case s.IsArray():
		out, err = c.array(input, s, pathRef{})
	default:
		out = input
	}
	if err != nil {
		return Decoded[any]{}, err
	}
	return Decoded[any]{Value: out, Presence: c.presence}, nil
}

// convertConfig is the per-call resolution of ConvertOpt. It is read-only once
// built.
type convertConfig struct {
	defaults         map[Type]any
	filters          map[Type]Filter
	coerce           coercer
	redundancy       bool
	filterArrayItems bool
	maxDepth         int
	logger           *slog.Logger
}

func resolveConvertOpt(opt ConvertOpt) *convertConfig {
	cfg := &convertConfig{
		defaults: map[Type]any{
			TypeString:  "",
			TypeNumber:  float64(0),
			TypeBoolean: false,
			TypeNull:    nil,
		},
		redundancy:       opt.Redundancy,
		filterArrayItems: opt.FilterArrayItems,
		maxDepth:         opt.MaxDepth,
		logger:           opt.Logger,
	}
	if opt.NumberMode == NumberJSONNumber {
		cfg.defaults[TypeNumber] = json.Number("0")
	}
	for t, v := range opt.Defaults {
		if t.Primitive() {
			cfg.defaults[t] = v
		}
	}
	cfg.coerce = coercer{mode: opt.NumberMode, numberDefault: cfg.defaults[TypeNumber]}

	cfg.filters = map[Type]Filter{}
	if !opt.NoDefaultFilters {
		cfg.filters = cfg.coerce.filters()
	}
	for t, f := range opt.Filters {
		if f == nil {
			delete(cfg.filters, t)
			continue
		}
		cfg.filters[t] = f
	}
	return cfg
}

type converter struct {
	ctx      context.Context
	cfg      *convertConfig
	presence PresenceMap
}

func (c *converter) enter(p pathRef) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	if c.cfg.maxDepth > 0 && p.Depth() >= c.cfg.maxDepth {
		return Issues{p.Issue(CodeMaxDepth, i18n.T(CodeMaxDepth, nil), "limit", c.cfg.maxDepth)}
	}
	return nil
}

func (c *converter) mark(p pathRef, f Presence) {
	if c.presence != nil {
		c.presence[p.Pointer()] |= f
	}
}

func (c *converter) debug(msg string, args ...any) {
	if c.cfg.logger != nil {
		c.cfg.logger.DebugContext(c.ctx, msg, args...)
	}
}

// object converts in against an object node.
func (c *converter) object(in any, s *Schema, p pathRef) (any, error) {
	if err := c.enter(p); err != nil {
		return nil, err
	}
	rec, ok := asRecord(in)
	if !ok {
		rec = map[string]any{}
	}
	if !s.IsObject() || s.Properties.Len() == 0 {
		return eng.Plain(rec), nil
	}

	out := make(map[string]any, s.Properties.Len())
	matched := make([]string, 0, s.Properties.Len())
	var ferr error
	s.Properties.each(func(key string, prop *Schema) {
		if ferr != nil {
			return
		}
		child := p.Field(key)
		inKey := inputKey(key, prop)
		raw, has := rec[inKey]
		if !has {
			if s.IsRequired(key) {
				out[key] = c.defaultOf(prop)
				c.mark(child, PresenceDefaultApplied)
				c.debug("jsonmold: default applied", "path", child.Pointer(), "type", prop.Type)
			}
			return
		}
		matched = append(matched, inKey)
		v, err := c.value(raw, rec, prop, child)
		if err == nil {
			switch {
			case prop.IsObject():
				v, err = c.object(v, prop, child)
			case prop.IsArray():
				v, err = c.array(v, prop, child)
			}
		}
		if err != nil {
			ferr = err
			return
		}
		out[key] = v
	})
	if ferr != nil {
		return nil, ferr
	}

	if c.cfg.redundancy {
		rest, _ := eng.Plain(rec).(map[string]any)
		for _, k := range matched {
			delete(rest, k)
		}
		c.mergeRedundant(out, rest, p)
	}
	return out, nil
}

// inputKey is the alias, the name, or the property key when the node carries
// neither.
func inputKey(key string, s *Schema) string {
	if k := s.InputKey(); k != "" {
		return k
	}
	return key
}

// mergeRedundant copies src into dst. Keys already produced from the schema
// win; when both sides hold objects the missing nested keys are filled in.
func (c *converter) mergeRedundant(dst, src map[string]any, p pathRef) {
	for _, k := range eng.SortedKeys(src) {
		v := src[k]
		existing, ok := dst[k]
		if !ok {
			dst[k] = v
			c.mark(p.Field(k), PresenceRedundant)
			continue
		}
		em, okDst := existing.(map[string]any)
		sm, okSrc := v.(map[string]any)
		if okDst && okSrc {
			c.mergeRedundant(em, sm, p.Field(k))
		}
	}
}

// array converts in against an array node.
func (c *converter) array(in any, s *Schema, p pathRef) (any, error) {
	if err := c.enter(p); err != nil {
		return nil, err
	}
	arr, ok := asArray(in)
	if !ok {
		arr = []any{}
	}
	if !s.IsArray() {
		return eng.Plain(arr), nil
	}
	if len(arr) == 0 {
		return []any{}, nil
	}

	items := s.Items
	switch {
	case items.IsObject():
		out := make([]any, len(arr))
		for i, el := range arr {
			v, err := c.object(el, items, p.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case c.cfg.filterArrayItems:
		out := make([]any, len(arr))
		for i, el := range arr {
			child := p.Index(i)
			v, err := c.value(el, nil, items, child)
			if err == nil && items.IsArray() {
				v, err = c.array(v, items, child)
			}
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return eng.Plain(arr), nil
}

// value resolves a present input value: enum remap first, then the field
// filter or, without one, the type filter.
func (c *converter) value(raw any, rec map[string]any, s *Schema, p pathRef) (any, error) {
	c.mark(p, PresenceSeen)
	if raw == nil {
		c.mark(p, PresenceWasNull)
	}

	v := raw
	if mapped, ok := c.remapEnum(raw, s); ok {
		v = mapped
		c.mark(p, PresenceEnumMapped)
		c.debug("jsonmold: enum mapped", "path", p.Pointer())
	}

	f := s.Filter
	if f == nil {
		f = c.cfg.filters[s.Type]
	}
	if f != nil {
		out, err := f(c.ctx, v, rec, s)
		if err != nil {
			return nil, &FilterError{Path: p.Pointer(), Err: err}
		}
		v = out
	}
	if !s.IsObject() && !s.IsArray() {
		v = eng.Plain(v)
	}
	return v, nil
}

// remapEnum returns the output value of the first rule matching raw. InputType
// coerces the rule's input value only; raw is compared as it arrived.
func (c *converter) remapEnum(raw any, s *Schema) (any, bool) {
	for _, e := range s.Enums {
		want := e.Name
		if e.InputType != "" {
			want = c.cfg.coerce.coerce(e.InputType, want)
		}
		if !looseEqual(want, raw) {
			continue
		}
		if e.OutputType != "" {
			return c.cfg.coerce.coerce(e.OutputType, e.Value), true
		}
		return eng.Plain(e.Value), true
	}
	return nil, false
}

// defaultOf computes the value written for an absent required property.
func (c *converter) defaultOf(s *Schema) any {
	if s.HasDefault {
		return eng.Plain(s.Default)
	}
	if s.Type.Primitive() {
		return eng.Plain(c.cfg.defaults[s.Type])
	}
	switch s.Type {
	case TypeArray:
		return []any{}
	case TypeObject:
		out := make(map[string]any, s.Properties.Len())
		s.Properties.each(func(key string, prop *Schema) {
			out[key] = c.defaultOf(prop)
		})
		return out
	}
	return nil
}
