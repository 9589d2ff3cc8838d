package commands

import (
	"fmt"
	"log/slog"
	"sort"
	"unicode/utf8"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/reoring/jsonmold"
)

// settings is the resolved view of flags, environment and config file.
type settings struct {
	build   jsonmold.BuildOpt
	convert jsonmold.ConvertOpt
	format  string
	pretty  bool
	jobs    int
}

// Config file keys:
//
//	format: json | yaml | msgpack
//	pretty: bool
//	requiredSign, aliasSign: single character or "none"
//	allRequired, redundancy, filterArrayItems: bool
//	duplicates: ignore | warn | error
//	maxDepth, maxBytes, jobs: int
//	numbers: float64 | json
//	defaults: {string: "", number: 0, boolean: false, null: ~}
func loadSettings(v *viper.Viper, log *slog.Logger) (*settings, error) {
	st := &settings{
		format: v.GetString("format"),
		pretty: v.GetBool("pretty"),
		jobs:   v.GetInt("jobs"),
	}
	switch st.format {
	case "json", "yaml", "msgpack":
	default:
		return nil, fmt.Errorf("unknown output format %q", st.format)
	}
	if st.jobs < 1 {
		st.jobs = 1
	}

	var err error
	st.build = jsonmold.BuildOpt{
		AllRequired: v.GetBool("allRequired"),
		Title:       v.GetString("title"),
		Description: v.GetString("description"),
	}
	if st.build.RequiredSign, err = signOf("requiredSign", v.GetString("requiredSign")); err != nil {
		return nil, err
	}
	if st.build.AliasSign, err = signOf("aliasSign", v.GetString("aliasSign")); err != nil {
		return nil, err
	}

	dup, err := severityOf(v.GetString("duplicates"))
	if err != nil {
		return nil, err
	}
	numbers, err := numberModeOf(v.GetString("numbers"))
	if err != nil {
		return nil, err
	}
	defaults, err := defaultsOf(v.GetStringMap("defaults"))
	if err != nil {
		return nil, err
	}

	st.convert = jsonmold.ConvertOpt{
		Defaults:         defaults,
		Redundancy:       v.GetBool("redundancy"),
		FilterArrayItems: v.GetBool("filterArrayItems"),
		NumberMode:       numbers,
		MaxDepth:         v.GetInt("maxDepth"),
		Build:            st.build,
		Decode: jsonmold.DecodeOpt{
			Strictness: jsonmold.Strictness{OnDuplicateKey: dup},
			MaxDepth:   v.GetInt("maxDepth"),
			MaxBytes:   v.GetInt64("maxBytes"),
			OnIssue: func(i jsonmold.Issue) {
				log.Warn("jsonmold: decode issue", "path", i.Path, "code", i.Code, "message", i.Message)
			},
		},
		Logger: log,
	}
	return st, nil
}

func signOf(key, s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "none":
		return jsonmold.NoSign, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("%s must be a single character, got %q", key, s)
	}
	return r, nil
}

func severityOf(s string) (jsonmold.Severity, error) {
	switch s {
	case "", "ignore":
		return jsonmold.Ignore, nil
	case "warn":
		return jsonmold.Warn, nil
	case "error":
		return jsonmold.Error, nil
	}
	return 0, fmt.Errorf("unknown duplicates mode %q", s)
}

func numberModeOf(s string) (jsonmold.NumberMode, error) {
	switch s {
	case "", "float64":
		return jsonmold.NumberFloat64, nil
	case "json":
		return jsonmold.NumberJSONNumber, nil
	}
	return 0, fmt.Errorf("unknown numbers mode %q", s)
}

// defaultsOf coerces configured per-type defaults to the type they stand for.
func defaultsOf(raw map[string]any) (map[jsonmold.Type]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[jsonmold.Type]any, len(raw))
	for _, k := range keys {
		t := jsonmold.Type(k)
		if !t.Primitive() {
			return nil, fmt.Errorf("defaults: %q is not a primitive type", k)
		}
		var (
			v   any
			err error
		)
		switch t {
		case jsonmold.TypeString:
			v, err = cast.ToStringE(raw[k])
		case jsonmold.TypeNumber:
			v, err = cast.ToFloat64E(raw[k])
		case jsonmold.TypeBoolean:
			v, err = cast.ToBoolE(raw[k])
		}
		if err != nil {
			return nil, fmt.Errorf("defaults.%s: %w", k, err)
		}
		out[t] = v
	}
	return out, nil
}
