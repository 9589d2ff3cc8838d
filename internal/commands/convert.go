package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/jsonmold"
)

func convertCmd(a *app) *cobra.Command {
	var templateFile, schemaFile, outDir string

	cmd := &cobra.Command{
		Use:   "convert (--template FILE | --schema FILE) [input...]",
		Short: "Normalize input documents against a template or schema",
		Long: `Convert each input (JSON, or YAML by extension) against the blueprint given by
--template or --schema. Reads stdin when no input is given. Inputs are
processed concurrently; results are written in argument order to stdout, or
one file per input under --out-dir.

Examples:
  jsonmold convert --template user.json a.json b.json
  jsonmold convert --schema user.schema.json --redundancy -f yaml < in.json
  jsonmold convert --template user.yaml --out-dir normalized/ inputs/*.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadSettings(a.v, a.log)
			if err != nil {
				return err
			}
			bp, err := loadBlueprint(cmd, st, templateFile, schemaFile)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{stdinName}
			}
			if err := checkInputs(args); err != nil {
				return err
			}

			results := make([]any, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(st.jobs)
			for i, name := range args {
				g.Go(func() error {
					data, err := readNamed(cmd.InOrStdin(), name)
					if err != nil {
						return err
					}
					in, err := decodeInput(name, data, st)
					if err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
					out, err := jsonmold.Convert(ctx, in, bp, st.convert)
					if err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
					results[i] = out
					a.log.Debug("jsonmold: converted", "input", name)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if outDir == "" {
				return writeAll(cmd.OutOrStdout(), st, results)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			for i, name := range args {
				b, err := encode(st, results[i])
				if err != nil {
					return fmt.Errorf("encode %s: %w", name, err)
				}
				path := outputPath(outDir, name, st.format)
				if err := os.WriteFile(path, b, 0o644); err != nil {
					return err
				}
				a.log.Info("jsonmold: wrote", "path", path)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&templateFile, "template", "t", "", "Template file")
	f.StringVarP(&schemaFile, "schema", "s", "", "Schema document file")
	f.StringVarP(&outDir, "out-dir", "o", "", "Write one output file per input into this directory")
	f.Bool("redundancy", false, "Keep input keys the schema does not declare")
	f.Bool("filter-array-items", false, "Apply the item type filter to arrays of primitives")
	f.String("numbers", "float64", "Number representation: float64 or json")
	f.IntP("jobs", "j", 0, "Inputs converted in parallel (default: number of CPUs)")
	f.Int64("max-bytes", 0, "Maximum input size in bytes (0 = unbounded)")
	cmd.MarkFlagsMutuallyExclusive("template", "schema")
	cmd.MarkFlagsOneRequired("template", "schema")

	_ = a.v.BindPFlag("redundancy", f.Lookup("redundancy"))
	_ = a.v.BindPFlag("filterArrayItems", f.Lookup("filter-array-items"))
	_ = a.v.BindPFlag("numbers", f.Lookup("numbers"))
	_ = a.v.BindPFlag("maxBytes", f.Lookup("max-bytes"))
	_ = a.v.BindPFlag("jobs", f.Lookup("jobs"))

	return cmd
}

func loadBlueprint(cmd *cobra.Command, st *settings, templateFile, schemaFile string) (jsonmold.Blueprint, error) {
	if schemaFile != "" {
		data, err := readNamed(cmd.InOrStdin(), schemaFile)
		if err != nil {
			return jsonmold.Blueprint{}, err
		}
		s, err := readSchema(schemaFile, data, st.convert.Decode)
		if err != nil {
			return jsonmold.Blueprint{}, fmt.Errorf("%s: %w", schemaFile, err)
		}
		return jsonmold.FromSchema(s), nil
	}
	data, err := readNamed(cmd.InOrStdin(), templateFile)
	if err != nil {
		return jsonmold.Blueprint{}, err
	}
	tpl, err := decodeTemplate(templateFile, data, st.convert.Decode)
	if err != nil {
		return jsonmold.Blueprint{}, fmt.Errorf("%s: %w", templateFile, err)
	}
	return jsonmold.FromSchema(jsonmold.Build(tpl, st.build)), nil
}

// checkInputs rejects reading stdin more than once.
func checkInputs(args []string) error {
	n := 0
	for _, a := range args {
		if a == stdinName {
			n++
		}
	}
	if n > 1 {
		return errors.New("stdin (-) may be given only once")
	}
	return nil
}
