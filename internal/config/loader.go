package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and configuration files to produce a Config.
// Config file values are applied first; flags that were set explicitly win.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}

	configPath := strings.TrimSpace(flagSet.Lookup("config").Value.String())
	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := Defaults()
	cfg.ConfigFile = configPath

	if err := applyConfigSettings(&cfg, cfgViper.AllSettings()); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(&cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.Method = strings.ToLower(strings.TrimSpace(cfg.Method))
	cfg.KeysFormat = strings.ToLower(strings.TrimSpace(cfg.KeysFormat))
	cfg.Report = strings.ToLower(strings.TrimSpace(cfg.Report))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	return &cfg, nil
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]any) error {
	if len(settings) == 0 {
		return nil
	}

	strs := []struct {
		dst  *string
		name string
		keys []string
	}{
		{&cfg.Method, "method", []string{"method"}},
		{&cfg.KeysFile, "keys", []string{"keys", "keysfile", "keys_file", "keys-file"}},
		{&cfg.KeysFormat, "keysFormat", []string{"keysformat", "keys_format", "keys-format"}},
		{&cfg.KeysField, "keysField", []string{"keysfield", "keys_field", "keys-field"}},
		{&cfg.OutputDir, "outputDir", []string{"outputdir", "output_dir", "output-dir"}},
		{&cfg.AmmoOut, "ammoOut", []string{"ammoout", "ammo_out", "ammo-out"}},
		{&cfg.KeysOut, "keysOut", []string{"keysout", "keys_out", "keys-out"}},
		{&cfg.URLPrefix, "urlPrefix", []string{"urlprefix", "url_prefix", "url-prefix"}},
		{&cfg.Report, "report", []string{"report"}},
		{&cfg.LogLevel, "logLevel", []string{"loglevel", "log_level", "log-level"}},
	}
	for _, s := range strs {
		raw, ok := setting(settings, s.keys...)
		if !ok {
			continue
		}
		val, err := toString(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		*s.dst = strings.TrimSpace(val)
	}

	if raw, ok := setting(settings, "num"); ok {
		val, err := toInt(raw)
		if err != nil {
			return fmt.Errorf("num: %w", err)
		}
		cfg.Num = val
	}

	if raw, ok := setting(settings, "bodysize", "body_size", "body-size"); ok {
		val, err := toInt(raw)
		if err != nil {
			return fmt.Errorf("bodySize: %w", err)
		}
		cfg.BodySize = val
	}

	if raw, ok := setting(settings, "rewriteprob", "rewrite_prob", "rewrite-prob"); ok {
		val, err := toFloat(raw)
		if err != nil {
			return fmt.Errorf("rewriteProb: %w", err)
		}
		cfg.RewriteProb = val
	}

	if raw, ok := setting(settings, "skewrate", "skew_rate", "skew-rate"); ok {
		val, err := toFloat(raw)
		if err != nil {
			return fmt.Errorf("skewRate: %w", err)
		}
		cfg.SkewRate = val
	}

	if raw, ok := setting(settings, "seed"); ok {
		val, err := toInt64(raw)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		cfg.Seed = val
	}

	if raw, ok := setting(settings, "progress"); ok {
		val, err := toBool(raw)
		if err != nil {
			return fmt.Errorf("progress: %w", err)
		}
		cfg.Progress = val
	}

	if raw, ok := setting(settings, "progressinterval", "progress_interval", "progress-interval"); ok {
		dur, err := toDuration(raw)
		if err != nil {
			return fmt.Errorf("progressInterval: %w", err)
		}
		cfg.ProgressInterval = dur
	}

	return nil
}
