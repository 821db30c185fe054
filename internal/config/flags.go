package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/torosent/ammogen/internal/ammo"
	"github.com/torosent/ammogen/internal/keystore"
	"github.com/torosent/ammogen/internal/policy"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ammogen",
		Short:         "Generate ammo files for HTTP load testing",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Generation flags
	flags.StringP("method", "m", DefaultMethod, "Generation method: put, put_rew, get, get_un or mix")
	flags.IntP("num", "n", DefaultNum, "Number of requests to generate")
	flags.Int("body-size", policy.DefaultBodySize, "Size in bytes of each random PUT body")
	flags.Float64("rewrite-prob", policy.DefaultRewriteProb, "Probability that put_rew reuses an existing key")
	flags.Float64("skew-rate", keystore.DefaultSkewRate, "Rate of the exponential key pick used by get_un")
	flags.Int64("seed", 0, "Random seed (0 picks a time-based seed)")
	flags.String("url-prefix", ammo.DefaultURLPrefix, "Request target prefix the key is appended to")

	// Keys flags
	flags.StringP("keys", "k", "", "Path to the keys file to load (required for get, get_un and mix)")
	flags.String("keys-format", string(keystore.FormatText), "Keys file format: text, csv or json")
	flags.String("keys-field", "", "CSV column or gjson path that holds the keys")

	// Output flags
	flags.StringP("output-dir", "o", DefaultOutputDir, "Directory for <tag>.ammo and <tag>.keys")
	flags.String("ammo-out", "", "Ammo file path (overrides --output-dir)")
	flags.String("keys-out", "", "Keys file path (overrides --output-dir)")
	flags.String("report", DefaultReport, "Run report format: text, json, yaml or none")
	flags.Bool("progress", false, "Log progress while generating")
	flags.Duration("progress-interval", DefaultProgressInterval, "Minimum time between progress lines")
	flags.String("log-level", DefaultLogLevel, "Log level: debug, info, warn, error or disabled")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\n%s\n\nFlags:\n", cmd.UseLine(), cmd.Short)
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"method", &cfg.Method},
		{"keys", &cfg.KeysFile},
		{"keys-format", &cfg.KeysFormat},
		{"keys-field", &cfg.KeysField},
		{"output-dir", &cfg.OutputDir},
		{"ammo-out", &cfg.AmmoOut},
		{"keys-out", &cfg.KeysOut},
		{"url-prefix", &cfg.URLPrefix},
		{"report", &cfg.Report},
		{"log-level", &cfg.LogLevel},
	}
	for _, s := range strs {
		if !fs.Changed(s.name) {
			continue
		}
		val, err := fs.GetString(s.name)
		if err != nil {
			return err
		}
		*s.dst = strings.TrimSpace(val)
	}

	if fs.Changed("num") {
		val, err := fs.GetInt("num")
		if err != nil {
			return err
		}
		cfg.Num = val
	}
	if fs.Changed("body-size") {
		val, err := fs.GetInt("body-size")
		if err != nil {
			return err
		}
		cfg.BodySize = val
	}
	if fs.Changed("rewrite-prob") {
		val, err := fs.GetFloat64("rewrite-prob")
		if err != nil {
			return err
		}
		cfg.RewriteProb = val
	}
	if fs.Changed("skew-rate") {
		val, err := fs.GetFloat64("skew-rate")
		if err != nil {
			return err
		}
		cfg.SkewRate = val
	}
	if fs.Changed("seed") {
		val, err := fs.GetInt64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = val
	}
	if fs.Changed("progress") {
		val, err := fs.GetBool("progress")
		if err != nil {
			return err
		}
		cfg.Progress = val
	}
	if fs.Changed("progress-interval") {
		val, err := fs.GetDuration("progress-interval")
		if err != nil {
			return err
		}
		cfg.ProgressInterval = val
	}
	return nil
}
