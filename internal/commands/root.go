// Package commands implements the jsonmold command line.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type app struct {
	v       *viper.Viper
	log     *slog.Logger
	cfgFile string
}

// New returns the root command with every subcommand attached.
func New() *cobra.Command {
	a := &app{v: viper.New(), log: slog.New(slog.DiscardHandler)}
	cmd := rootCmd(a)
	cmd.AddCommand(schemaCmd(a))
	cmd.AddCommand(convertCmd(a))
	cmd.AddCommand(versionCmd())
	return cmd
}

func rootCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "jsonmold",
		Short: "Infer schemas from JSON templates and normalize documents against them",
		Long: `jsonmold turns a sample JSON (or YAML) document into a schema and reshapes
arbitrary input to match it: missing required keys are filled with defaults,
aliased keys are renamed, values are coerced to the declared types and
undeclared keys are dropped.

Template keys may carry signs:
  "*id"          required property
  "user_id@uid"  output key user_id, read from input key uid

Settings are read from ./jsonmold.yaml (or --config) and JSONMOLD_* environment
variables; flags take precedence.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return a.readConfig()
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default ./jsonmold.yaml)")
	f.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	f.StringP("format", "f", "json", "Output format: json, yaml or msgpack")
	f.Bool("pretty", false, "Indent JSON output")
	f.String("required-sign", "", `Required sign for template keys ("none" disables, default "*")`)
	f.String("alias-sign", "", `Alias sign for template keys ("none" disables, default "@")`)
	f.Bool("all-required", false, "Mark every inferred property as required")
	f.String("duplicates", "ignore", "Duplicate key handling while decoding: ignore, warn or error")
	f.Int("max-depth", 0, "Maximum nesting depth of inputs (0 = unbounded)")

	_ = a.v.BindPFlag("format", f.Lookup("format"))
	_ = a.v.BindPFlag("pretty", f.Lookup("pretty"))
	_ = a.v.BindPFlag("requiredSign", f.Lookup("required-sign"))
	_ = a.v.BindPFlag("aliasSign", f.Lookup("alias-sign"))
	_ = a.v.BindPFlag("allRequired", f.Lookup("all-required"))
	_ = a.v.BindPFlag("duplicates", f.Lookup("duplicates"))
	_ = a.v.BindPFlag("maxDepth", f.Lookup("max-depth"))

	a.v.SetDefault("jobs", runtime.NumCPU())
	a.v.SetDefault("numbers", "float64")

	return cmd
}

func (a *app) readConfig() error {
	v := a.v
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.SetConfigName("jsonmold")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("JSONMOLD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		return nil
	}
	a.log.Debug("jsonmold: config loaded", "file", v.ConfigFileUsed())
	return nil
}
