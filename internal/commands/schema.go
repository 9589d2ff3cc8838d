package commands

import (
	"github.com/spf13/cobra"

	"github.com/reoring/jsonmold"
	"github.com/reoring/jsonmold/jsonschema"
)

func schemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [template]",
		Short: "Infer a JSON Schema (draft-04) document from a template",
		Long: `Infer a schema from a template file (JSON, or YAML by extension) and print it
as a draft-04 document. Reads stdin when no file is given.

Examples:
  jsonmold schema user.json
  jsonmold schema --title user --format yaml user.yaml
  echo '{"*id":0,"name@n":""}' | jsonmold schema`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadSettings(a.v, a.log)
			if err != nil {
				return err
			}
			name := stdinName
			if len(args) == 1 {
				name = args[0]
			}
			data, err := readNamed(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}
			tpl, err := decodeTemplate(name, data, st.convert.Decode)
			if err != nil {
				return err
			}
			s := jsonmold.Build(tpl, st.build)
			a.log.Debug("jsonmold: schema built", "template", name, "properties", s.Properties.Len())

			doc := jsonschema.Export(s, jsonschema.ExportOpt{ID: a.v.GetString("id"), NoEnvelope: a.v.GetBool("noEnvelope")})
			return writeAll(cmd.OutOrStdout(), st, []any{doc})
		},
	}

	f := cmd.Flags()
	f.String("title", "", "Root title")
	f.String("description", "", "Root description")
	f.String("id", "", "Root id and $schema URI")
	f.Bool("no-envelope", false, "Omit id, $schema, title and description")
	_ = a.v.BindPFlag("title", f.Lookup("title"))
	_ = a.v.BindPFlag("description", f.Lookup("description"))
	_ = a.v.BindPFlag("id", f.Lookup("id"))
	_ = a.v.BindPFlag("noEnvelope", f.Lookup("no-envelope"))

	return cmd
}
