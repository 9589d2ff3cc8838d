package jsonmold_test

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/reoring/jsonmold"
)

// ---- Helpers ----

func userTemplate() map[string]any {
	return map[string]any{
		"*id":     "",
		"name@n":  "",
		"*age":    0,
		"active":  false,
		"meta":    map[string]any{"*score": 0},
		"*tags":   []any{""},
		"friends": []any{map[string]any{"*id": ""}},
	}
}

func userBlueprint() jsonmold.Blueprint {
	return jsonmold.FromSchema(jsonmold.Build(userTemplate()))
}

func smallUserJSON() []byte {
	return []byte(`{"id":"u_1","n":"alice","age":"31","tags":["a"]}`)
}

// generateHugeJSONArray returns a JSON array of objects of the form:
// [{"id":"obj_0","n":"n0","age":0,"active":true,"meta":{"score":0},"k0":"v0",...}, ...]
func generateHugeJSONArray(numObjects int, extraFields int) []byte {
	var buf bytes.Buffer
	buf.Grow(numObjects * (64 + extraFields*16))
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		fmt.Fprintf(&buf, "\"id\":\"obj_%d\",", i)
		fmt.Fprintf(&buf, "\"n\":\"n%d\",", i)
		fmt.Fprintf(&buf, "\"age\":%d,", i)
		if i%2 == 0 {
			buf.WriteString("\"active\":true,")
		} else {
			buf.WriteString("\"active\":\"false\",")
		}
		fmt.Fprintf(&buf, "\"meta\":{\"score\":\"%d\"}", i)
		for k := 0; k < extraFields; k++ {
			buf.WriteString(",\"k")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\":\"v")
			buf.WriteString(strconv.Itoa(i))
			buf.WriteString("\"")
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// ---- Micro benchmarks (small inputs) ----

func Benchmark_Build_Template(b *testing.B) {
	tpl := map[string]any{"*id": "", "name@n": "", "meta": map[string]any{"*score": 0}, "tags": []any{""}}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = jsonmold.Build(tpl)
	}
}

func Benchmark_ConvertJSON_Object_Small(b *testing.B) {
	ctx := context.Background()
	bp := userBlueprint()
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := jsonmold.ConvertJSON(ctx, data, bp); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ConvertWithMeta_Object_Small(b *testing.B) {
	ctx := context.Background()
	bp := userBlueprint()
	in := map[string]any{"id": "u_1", "n": "alice", "age": "31", "tags": []any{"a"}}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := jsonmold.ConvertWithMeta(ctx, in, bp); err != nil {
			b.Fatal(err)
		}
	}
}

// Template blueprints are inferred on every call.
func Benchmark_Convert_TemplateBlueprint(b *testing.B) {
	ctx := context.Background()
	bp := jsonmold.FromTemplate(map[string]any{"*id": "", "name@n": ""})
	in := map[string]any{"id": "u_1", "n": "alice"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := jsonmold.Convert(ctx, in, bp); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Macro benchmarks (huge JSON) ----

const (
	hugeObjects   = 10000
	hugeExtraKeys = 8
)

func Benchmark_ConvertJSON_HugeArray(b *testing.B) {
	ctx := context.Background()
	bp := jsonmold.FromSchema(jsonmold.Build([]any{userTemplate()}))
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := jsonmold.ConvertJSON(ctx, data, bp); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ConvertJSON_HugeArray_Redundancy(b *testing.B) {
	ctx := context.Background()
	bp := jsonmold.FromSchema(jsonmold.Build([]any{userTemplate()}))
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	opt := jsonmold.ConvertOpt{Redundancy: true}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := jsonmold.ConvertJSON(ctx, data, bp, opt); err != nil {
			b.Fatal(err)
		}
	}
}
