package jsonmold_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/jsonmold"
)

func TestDecodeJSON_DuplicateKey_Error(t *testing.T) {
	opt := jsonmold.DecodeOpt{Strictness: jsonmold.Strictness{OnDuplicateKey: jsonmold.Error}}
	_, err := jsonmold.DecodeJSON(jsonmold.JSONBytes([]byte(`{"a":1,"a":2}`)), opt)
	if err == nil {
		t.Fatalf("expected error for duplicate key")
	}
	if iss, ok := jsonmold.AsIssues(err); ok {
		if len(iss) == 0 || iss[0].Code != jsonmold.CodeDuplicateKey {
			t.Fatalf("expected duplicate_key issue, got: %v", iss)
		} else if iss[0].Path != "/a" {
			t.Fatalf("expected path=/a, got: %s", iss[0].Path)
		}
	} else {
		t.Fatalf("expected Issues error, got: %v", err)
	}
}

func TestDecodeJSON_DuplicateKey_NestedPath(t *testing.T) {
	opt := jsonmold.DecodeOpt{Strictness: jsonmold.Strictness{OnDuplicateKey: jsonmold.Error}}
	_, err := jsonmold.DecodeJSON(jsonmold.JSONBytes([]byte(`[{"a":1,"a":2}]`)), opt)
	iss, ok := jsonmold.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got: %v", err)
	}
	if iss[0].Path != "/0/a" {
		t.Fatalf("expected path=/0/a, got: %s", iss[0].Path)
	}
}

func TestDecodeJSON_DuplicateKey_WarnReportsAndContinues(t *testing.T) {
	var seen []jsonmold.Issue
	opt := jsonmold.DecodeOpt{
		Strictness: jsonmold.Strictness{OnDuplicateKey: jsonmold.Warn},
		OnIssue:    func(i jsonmold.Issue) { seen = append(seen, i) },
	}
	v, err := jsonmold.DecodeJSON(jsonmold.JSONBytes([]byte(`{"a":1,"a":2}`)), opt)
	if err != nil {
		t.Fatalf("warn must not fail: %v", err)
	}
	if len(seen) != 1 || seen[0].Code != jsonmold.CodeDuplicateKey {
		t.Fatalf("expected one duplicate_key warning, got %v", seen)
	}
	if diff := cmp.Diff(map[string]any{"a": json.Number("2")}, v); diff != "" {
		t.Fatalf("last value wins (-want +got):\n%s", diff)
	}
}

func TestDecodeJSON_MaxDepth_Exceeded(t *testing.T) {
	// depth = 3 for { a: { b: { c: 1 } } }
	_, err := jsonmold.DecodeJSON(jsonmold.JSONBytes([]byte(`{"a":{"b":{"c":1}}}`)), jsonmold.DecodeOpt{MaxDepth: 2})
	iss, ok := jsonmold.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got: %v", err)
	}
	if iss[0].Code != jsonmold.CodeMaxDepth || iss[0].Path != "/a/b" {
		t.Fatalf("expected max_depth at /a/b, got: %v", iss)
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	_, err := jsonmold.DecodeJSON(jsonmold.JSONBytes([]byte(`{"a":`)))
	iss, ok := jsonmold.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != jsonmold.CodeParseError {
		t.Fatalf("expected parse_error, got: %v", err)
	}
}

func TestDecodeJSON_NumberModes(t *testing.T) {
	v, err := jsonmold.DecodeJSON(jsonmold.JSONBytes([]byte(`{"n":1.5,"l":[1]}`)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"n": json.Number("1.5"), "l": []any{json.Number("1")}}, v); diff != "" {
		t.Fatalf("json.Number mode (-want +got):\n%s", diff)
	}
	src := jsonmold.WithNumberMode(jsonmold.JSONBytes([]byte(`{"n":1.5}`)), jsonmold.NumberFloat64)
	v, err = jsonmold.DecodeJSON(src)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"n": 1.5}, v); diff != "" {
		t.Fatalf("float64 mode (-want +got):\n%s", diff)
	}
}

func TestConvertJSON_MaxBytes_Exceeded(t *testing.T) {
	data := append([]byte("{}"), bytes.Repeat([]byte(" "), 1024)...)
	_, err := jsonmold.ConvertJSON(context.Background(), data, jsonmold.FromTemplate(map[string]any{"a": 1}),
		jsonmold.ConvertOpt{Decode: jsonmold.DecodeOpt{MaxBytes: 2}})
	iss, ok := jsonmold.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != jsonmold.CodeTruncated {
		t.Fatalf("expected truncated issue, got: %v", err)
	}
	if iss[0].Path != "/" {
		t.Fatalf("expected truncated at root, got: %s", iss[0].Path)
	}
}

func TestDecodeTemplateJSON_KeepsOrder(t *testing.T) {
	v, err := jsonmold.DecodeTemplateJSON(jsonmold.JSONBytes([]byte(`{"z":1,"a":{"y":true,"b":null},"m":[{"q":1,"p":2}]}`)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	obj, ok := v.(*jsonmold.Object)
	if !ok {
		t.Fatalf("expected *Object, got %T", v)
	}
	if diff := cmp.Diff([]string{"z", "a", "m"}, obj.Keys()); diff != "" {
		t.Fatalf("top-level order (-want +got):\n%s", diff)
	}
	inner, _ := obj.Get("a")
	if diff := cmp.Diff([]string{"y", "b"}, inner.(*jsonmold.Object).Keys()); diff != "" {
		t.Fatalf("nested order (-want +got):\n%s", diff)
	}
	b, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"z":1,"a":{"y":true,"b":null},"m":[{"q":1,"p":2}]}` {
		t.Fatalf("ordered marshal mismatch: %s", b)
	}
}

func TestDecodeTemplateYAML_KeepsOrder(t *testing.T) {
	v, err := jsonmold.DecodeTemplateYAML([]byte("z: 1\n'*a': x\nlist:\n  - k: true\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s := jsonmold.Build(v)
	if diff := cmp.Diff([]string{"z", "a", "list"}, s.Properties.Keys()); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	if z, _ := s.Properties.Get("z"); z.Type != jsonmold.TypeNumber {
		t.Fatalf("yaml int must infer number, got %q", z.Type)
	}
	if diff := cmp.Diff([]string{"a"}, s.Required); diff != "" {
		t.Fatalf("required (-want +got):\n%s", diff)
	}
}

func TestDecodeYAML_DuplicateKey(t *testing.T) {
	data := []byte("a: 1\nb:\n  c: 1\n  c: 2\n")
	if _, err := jsonmold.DecodeYAML(data); err != nil {
		t.Fatalf("duplicates are ignored by default: %v", err)
	}
	_, err := jsonmold.DecodeYAML(data, jsonmold.DecodeOpt{Strictness: jsonmold.Strictness{OnDuplicateKey: jsonmold.Error}})
	iss, ok := jsonmold.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != jsonmold.CodeDuplicateKey || iss[0].Path != "/b/c" {
		t.Fatalf("expected duplicate_key at /b/c, got: %v", err)
	}
	if iss[0].Params["line"] != 4 {
		t.Fatalf("expected line param 4, got %v", iss[0].Params)
	}
}

func TestDecodeYAMLAll_MultiDocument(t *testing.T) {
	docs, err := jsonmold.DecodeYAMLAll([]byte("a: 1\n---\nb: [x, 2.5, null, true]\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []any{
		map[string]any{"a": int64(1)},
		map[string]any{"b": []any{"x", 2.5, nil, true}},
	}
	if diff := cmp.Diff(want, docs); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestDecodeTemplateYAML_Empty(t *testing.T) {
	_, err := jsonmold.DecodeTemplateYAML(nil)
	if iss, ok := jsonmold.AsIssues(err); !ok || iss[0].Code != jsonmold.CodeParseError {
		t.Fatalf("expected parse_error for empty input, got %v", err)
	}
}
