package jsonmold_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/jsonmold"
)

func TestConvertWithMeta_PresenceFlags(t *testing.T) {
	bp := jsonmold.FromTemplate(mustTemplate(t, `{
		"*a": "",
		"b@bb": "",
		"c": {"type": "string", "enums": [{"name": "x", "value": "y"}]},
		"list": [{"k": 0}]
	}`))
	in := map[string]any{"bb": nil, "c": "x", "z": 1.0, "list": []any{map[string]any{"k": "1"}}}

	dm, err := jsonmold.ConvertWithMeta(context.Background(), in, bp, jsonmold.ConvertOpt{Redundancy: true})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := map[string]any{"a": "", "b": "", "c": "y", "z": 1.0, "list": []any{map[string]any{"k": 1.0}}}
	if diff := cmp.Diff(want, dm.Value); diff != "" {
		t.Fatalf("value (-want +got):\n%s", diff)
	}

	pm := dm.Presence
	checks := []struct {
		path string
		f    jsonmold.Presence
	}{
		{"/", jsonmold.PresenceSeen},
		{"/a", jsonmold.PresenceDefaultApplied},
		{"/b", jsonmold.PresenceSeen | jsonmold.PresenceWasNull},
		{"/c", jsonmold.PresenceSeen | jsonmold.PresenceEnumMapped},
		{"/z", jsonmold.PresenceRedundant},
		{"/list/0/k", jsonmold.PresenceSeen},
	}
	for _, c := range checks {
		if !pm.Has(c.path, c.f) {
			t.Fatalf("presence %s = %b, want bits %b", c.path, pm[c.path], c.f)
		}
	}
	if pm.Has("/a", jsonmold.PresenceSeen) {
		t.Fatalf("defaulted key must not be marked seen")
	}
}

func TestConvertWithMeta_PresenceFilters(t *testing.T) {
	bp := jsonmold.FromTemplate(map[string]any{"a": "", "b": map[string]any{"c": ""}})
	in := map[string]any{"a": "x", "b": map[string]any{"c": "y"}}

	dm, err := jsonmold.ConvertWithMeta(context.Background(), in, bp, jsonmold.ConvertOpt{
		Presence: jsonmold.PresenceOpt{Include: []string{"/b"}, Exclude: []string{"/b/c"}},
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if diff := cmp.Diff(jsonmold.PresenceMap{"/b": jsonmold.PresenceSeen}, dm.Presence); diff != "" {
		t.Fatalf("presence (-want +got):\n%s", diff)
	}
}

func TestConvert_NoPresenceCollected(t *testing.T) {
	out, err := jsonmold.Convert(context.Background(), map[string]any{"a": "x"}, jsonmold.FromTemplate(map[string]any{"a": ""}))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": "x"}, out); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
