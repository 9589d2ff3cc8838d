package jsonmold_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/jsonmold"
)

func mustTemplate(t *testing.T, js string) any {
	t.Helper()
	v, err := jsonmold.DecodeTemplateJSON(jsonmold.JSONBytes([]byte(js)))
	if err != nil {
		t.Fatalf("decode template: %v", err)
	}
	return v
}

func prop(t *testing.T, s *jsonmold.Schema, key string) *jsonmold.Schema {
	t.Helper()
	p, ok := s.Properties.Get(key)
	if !ok {
		t.Fatalf("property %q missing; have %v", key, s.Properties.Keys())
	}
	return p
}

func TestBuild_ObjectConventions(t *testing.T) {
	s := jsonmold.Build(map[string]any{
		"*id":            1,
		"name@user_name": "x",
		"tags":           []any{"a"},
		"addr":           map[string]any{"city": "c"},
	})
	if !s.IsObject() {
		t.Fatalf("expected object-shaped root, got %+v", s)
	}
	// maps are walked in sorted key order
	if diff := cmp.Diff([]string{"id", "addr", "name", "tags"}, s.Properties.Keys()); diff != "" {
		t.Fatalf("property order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"id"}, s.Required); diff != "" {
		t.Fatalf("required (-want +got):\n%s", diff)
	}
	name := prop(t, s, "name")
	if name.Name != "name" || name.Alias != "user_name" || name.InputKey() != "user_name" {
		t.Fatalf("alias not resolved: %+v", name)
	}
	if id := prop(t, s, "id"); id.Type != jsonmold.TypeNumber || id.Name != "id" {
		t.Fatalf("unexpected id node: %+v", id)
	}
	tags := prop(t, s, "tags")
	if !tags.IsArray() || tags.Items.Type != jsonmold.TypeString {
		t.Fatalf("unexpected tags node: %+v", tags)
	}
	if addr := prop(t, s, "addr"); !addr.IsObject() || addr.Properties.Len() != 1 {
		t.Fatalf("unexpected addr node: %+v", addr)
	}
}

func TestBuild_OrderedTemplateKeepsDeclarationOrder(t *testing.T) {
	s := jsonmold.Build(mustTemplate(t, `{"z":1,"*a":"x","m":{"k":true},"*b":null}`))
	if diff := cmp.Diff([]string{"z", "a", "m", "b"}, s.Properties.Keys()); diff != "" {
		t.Fatalf("property order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, s.Required); diff != "" {
		t.Fatalf("required order (-want +got):\n%s", diff)
	}
	if b := prop(t, s, "b"); b.Type != jsonmold.TypeNull {
		t.Fatalf("null leaf typed %q", b.Type)
	}
}

func TestBuild_RequiredSignRoundTrip(t *testing.T) {
	tpl := map[string]any{"*user_id": 1}

	s := jsonmold.Build(tpl)
	if _, ok := s.Properties.Get("user_id"); !ok || !s.IsRequired("user_id") {
		t.Fatalf("expected required user_id, got keys=%v required=%v", s.Properties.Keys(), s.Required)
	}

	s = jsonmold.Build(tpl, jsonmold.BuildOpt{RequiredSign: '?'})
	if _, ok := s.Properties.Get("*user_id"); !ok {
		t.Fatalf("expected literal *user_id, got %v", s.Properties.Keys())
	}
	if len(s.Required) != 0 {
		t.Fatalf("expected no required keys, got %v", s.Required)
	}
}

func TestBuild_AllRequiredDoesNotDuplicate(t *testing.T) {
	s := jsonmold.Build(mustTemplate(t, `{"*a":1,"b":2}`), jsonmold.BuildOpt{AllRequired: true})
	if diff := cmp.Diff([]string{"a", "b"}, s.Required); diff != "" {
		t.Fatalf("required (-want +got):\n%s", diff)
	}
}

func TestBuild_RepresentativeArray(t *testing.T) {
	s := jsonmold.Build([]any{map[string]any{"a": 1}, map[string]any{"b": 2}})
	if !s.IsArray() || !s.Items.IsObject() {
		t.Fatalf("expected array of objects, got %+v", s)
	}
	if diff := cmp.Diff([]string{"a"}, s.Items.Properties.Keys()); diff != "" {
		t.Fatalf("items inferred from first element only (-want +got):\n%s", diff)
	}

	empty := jsonmold.Build([]any{})
	if empty.Type != jsonmold.TypeArray || empty.Items != nil || empty.IsArray() {
		t.Fatalf("empty array must yield an items-less array node, got %+v", empty)
	}
}

func TestBuild_UndefinedIsOmitted(t *testing.T) {
	s := jsonmold.Build(map[string]any{"a": jsonmold.Undefined, "*b": jsonmold.Undefined, "c": 1})
	if diff := cmp.Diff([]string{"c"}, s.Properties.Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	if len(s.Required) != 0 {
		t.Fatalf("undefined branch must not be required: %v", s.Required)
	}
	if jsonmold.Build(jsonmold.Undefined) != nil {
		t.Fatalf("undefined root must yield nil")
	}
}

func TestBuild_LeafTypes(t *testing.T) {
	cases := []struct {
		v    any
		want jsonmold.Type
	}{
		{nil, jsonmold.TypeNull},
		{true, jsonmold.TypeBoolean},
		{3, jsonmold.TypeNumber},
		{int64(3), jsonmold.TypeNumber},
		{2.5, jsonmold.TypeNumber},
		{json.Number("7"), jsonmold.TypeNumber},
		{"s", jsonmold.TypeString},
		{struct{}{}, jsonmold.TypeString},
	}
	for _, tc := range cases {
		if got := jsonmold.Build(tc.v).Type; got != tc.want {
			t.Fatalf("Build(%#v).Type = %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestBuild_SchemaFragments(t *testing.T) {
	s := jsonmold.Build(mustTemplate(t, `{
		"age": {"type": "number", "default": 18, "minimum": 0},
		"user": {"type": "object", "properties": {"*id": 1, "nick@n": "x"}, "required": ["nick"]},
		"list": {"type": "array", "items": {"x": 1}},
		"uid": {"type": "string", "name": "user_id"},
		"sex": {"type": "string", "@alias": "gender", "@enums": [{"name": "M", "value": "male"}]}
	}`))

	age := prop(t, s, "age")
	if age.Type != jsonmold.TypeNumber || !age.HasDefault || age.Default != json.Number("18") || age.Name != "age" {
		t.Fatalf("unexpected age fragment: %+v", age)
	}
	if diff := cmp.Diff(map[string]any{"minimum": json.Number("0")}, age.Attributes); diff != "" {
		t.Fatalf("attributes (-want +got):\n%s", diff)
	}

	user := prop(t, s, "user")
	if diff := cmp.Diff([]string{"id", "nick"}, user.Properties.Keys()); diff != "" {
		t.Fatalf("fragment properties re-resolved as template (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"id", "nick"}, user.Required); diff != "" {
		t.Fatalf("fragment required merged after derived (-want +got):\n%s", diff)
	}
	if nick := prop(t, user, "nick"); nick.Alias != "n" {
		t.Fatalf("alias inside fragment properties: %+v", nick)
	}

	list := prop(t, s, "list")
	if !list.IsArray() || !list.Items.IsObject() {
		t.Fatalf("unexpected list fragment: %+v", list)
	}

	uid := prop(t, s, "uid")
	if uid.Name != "user_id" || uid.InputKey() != "user_id" {
		t.Fatalf("fragment name should select the input key: %+v", uid)
	}

	sex := prop(t, s, "sex")
	if sex.Alias != "gender" || len(sex.Enums) != 1 || sex.Enums[0].Name != "M" || sex.Enums[0].Value != "male" {
		t.Fatalf("prefixed attributes not read: %+v", sex)
	}
}

func TestBuild_LaterKeyReplacesSameStructuralKey(t *testing.T) {
	s := jsonmold.Build(mustTemplate(t, `{"*a": 1, "a": "s"}`))
	if s.Properties.Len() != 1 || prop(t, s, "a").Type != jsonmold.TypeString {
		t.Fatalf("expected a single string property, got %v", s.Properties.Keys())
	}
	if diff := cmp.Diff([]string{"a"}, s.Required); diff != "" {
		t.Fatalf("required (-want +got):\n%s", diff)
	}
}

func TestBuild_EmbeddedSchemaIsCloned(t *testing.T) {
	child := (&jsonmold.Schema{Type: jsonmold.TypeNumber}).WithDefault(5.0)
	s := jsonmold.Build(map[string]any{"n": child})
	n := prop(t, s, "n")
	if n == child {
		t.Fatalf("embedded schema must be cloned")
	}
	if n.Name != "n" || n.Default != 5.0 {
		t.Fatalf("unexpected embedded node: %+v", n)
	}
	if child.Name != "" {
		t.Fatalf("caller schema mutated: %+v", child)
	}
}

func TestBuild_RootTitleDescription(t *testing.T) {
	s := jsonmold.Build(map[string]any{"a": 1}, jsonmold.BuildOpt{Title: "T", Description: "D"})
	if s.Title != "T" || s.Description != "D" {
		t.Fatalf("root metadata not applied: %q %q", s.Title, s.Description)
	}
}

func TestClassify(t *testing.T) {
	bp := jsonmold.Classify(map[string]any{"type": "object", "properties": map[string]any{"a": 1}})
	if bp.IsTemplate() {
		t.Fatalf("schema-shaped object must classify as schema")
	}
	if s := bp.Schema(); !s.IsObject() || s.Properties.Len() != 1 {
		t.Fatalf("unexpected classified schema: %+v", s)
	}
	if !jsonmold.Classify(map[string]any{"type": "person"}).IsTemplate() {
		t.Fatalf("unknown type value must classify as template")
	}
	if !jsonmold.Classify(map[string]any{}).IsZero() {
		t.Fatalf("empty template must be zero")
	}
}

func TestBuild_TypedGoContainers(t *testing.T) {
	s := jsonmold.Build(map[string]any{
		"*tags": []string{"x"},
		"n":     map[string]int{"a": 1},
		"raw":   []byte("bytes"),
	})
	if tags := prop(t, s, "tags"); !tags.IsArray() || tags.Items.Type != jsonmold.TypeString {
		t.Fatalf("[]string must infer an array of strings: %+v", tags)
	}
	n := prop(t, s, "n")
	if !n.IsObject() || prop(t, n, "a").Type != jsonmold.TypeNumber {
		t.Fatalf("map[string]int must infer an object: %+v", n)
	}
	if raw := prop(t, s, "raw"); raw.Type != jsonmold.TypeString {
		t.Fatalf("[]byte must stay a string, got %q", raw.Type)
	}
	if diff := cmp.Diff([]string{"tags"}, s.Required); diff != "" {
		t.Fatalf("required (-want +got):\n%s", diff)
	}

	checks := []struct {
		v    any
		want jsonmold.Type
	}{
		{[]int{1}, jsonmold.TypeArray},
		{[2]string{}, jsonmold.TypeArray},
		{map[string]bool{}, jsonmold.TypeObject},
		{map[int]string{}, jsonmold.TypeString},
		{[]string(nil), jsonmold.TypeNull},
	}
	for _, c := range checks {
		if got := jsonmold.TypeOf(c.v); got != c.want {
			t.Fatalf("TypeOf(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
	if !jsonmold.IsEmptyArray([]string{}) || !jsonmold.IsEmptyObject(map[string]int{}) {
		t.Fatalf("typed empty containers must be recognised")
	}
}
