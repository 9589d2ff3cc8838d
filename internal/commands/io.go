package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/reoring/jsonmold"
)

const stdinName = "-"

func readNamed(in io.Reader, name string) ([]byte, error) {
	if name == stdinName {
		return io.ReadAll(in)
	}
	return os.ReadFile(name)
}

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func decodeTemplate(name string, data []byte, dopt jsonmold.DecodeOpt) (any, error) {
	if isYAML(name) {
		return jsonmold.DecodeTemplateYAML(data, dopt)
	}
	return jsonmold.DecodeTemplateJSON(jsonmold.JSONBytes(data), dopt)
}

func decodeInput(name string, data []byte, st *settings) (any, error) {
	if isYAML(name) {
		return jsonmold.DecodeYAML(data, st.convert.Decode)
	}
	if st.convert.Decode.MaxBytes > 0 && int64(len(data)) > st.convert.Decode.MaxBytes {
		return nil, jsonmold.AppendIssues(nil, jsonmold.Issue{Code: jsonmold.CodeTruncated, Path: "/"})
	}
	return jsonmold.DecodeJSON(jsonmold.WithNumberMode(jsonmold.JSONBytes(data), st.convert.NumberMode), st.convert.Decode)
}

func readSchema(name string, data []byte, dopt jsonmold.DecodeOpt) (*jsonmold.Schema, error) {
	if isYAML(name) {
		return jsonmold.ReadSchemaYAML(data)
	}
	return jsonmold.ReadSchemaJSON(data, dopt)
}

// encode renders v in the configured output format, terminated so that
// successive values can be concatenated.
func encode(st *settings, v any) ([]byte, error) {
	switch st.format {
	case "yaml":
		return yaml.Marshal(v)
	case "msgpack":
		return msgpack.Marshal(jsonmold.Plain(v))
	}
	var (
		b   []byte
		err error
	)
	if st.pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// writeAll writes values one after another. YAML documents are separated by
// "---".
func writeAll(w io.Writer, st *settings, vs []any) error {
	var buf bytes.Buffer
	for i, v := range vs {
		b, err := encode(st, v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", st.format, err)
		}
		if st.format == "yaml" && i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(b)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func extension(format string) string {
	switch format {
	case "yaml":
		return ".yaml"
	case "msgpack":
		return ".msgpack"
	}
	return ".json"
}

// outputPath maps an input name to its file under dir, keeping the base name
// and swapping the extension for the output format.
func outputPath(dir, input, format string) string {
	base := "stdin"
	if input != stdinName {
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return filepath.Join(dir, base+extension(format))
}
