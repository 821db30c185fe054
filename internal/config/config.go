package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/torosent/ammogen/internal/ammo"
	"github.com/torosent/ammogen/internal/keystore"
	"github.com/torosent/ammogen/internal/log"
	"github.com/torosent/ammogen/internal/output"
	"github.com/torosent/ammogen/internal/policy"
)

const (
	DefaultMethod           = string(policy.MethodGet)
	DefaultNum              = 1000000
	DefaultOutputDir        = "."
	DefaultReport           = string(output.FormatText)
	DefaultLogLevel         = "info"
	DefaultProgressInterval = time.Second
)

type Config struct {
	Method           string        `mapstructure:"method"`
	Num              int           `mapstructure:"num"`
	KeysFile         string        `mapstructure:"keys"`
	KeysFormat       string        `mapstructure:"keys_format"`
	KeysField        string        `mapstructure:"keys_field"`
	OutputDir        string        `mapstructure:"output_dir"`
	AmmoOut          string        `mapstructure:"ammo_out"`
	KeysOut          string        `mapstructure:"keys_out"`
	URLPrefix        string        `mapstructure:"url_prefix"`
	BodySize         int           `mapstructure:"body_size"`
	RewriteProb      float64       `mapstructure:"rewrite_prob"`
	SkewRate         float64       `mapstructure:"skew_rate"`
	Seed             int64         `mapstructure:"seed"`
	Report           string        `mapstructure:"report"`
	Progress         bool          `mapstructure:"progress"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
	LogLevel         string        `mapstructure:"log_level"`
	ConfigFile       string        `mapstructure:"-"`
}

// Defaults returns a Config populated with the flag defaults.
func Defaults() Config {
	return Config{
		Method:           DefaultMethod,
		Num:              DefaultNum,
		KeysFormat:       string(keystore.FormatText),
		OutputDir:        DefaultOutputDir,
		URLPrefix:        ammo.DefaultURLPrefix,
		BodySize:         policy.DefaultBodySize,
		RewriteProb:      policy.DefaultRewriteProb,
		SkewRate:         keystore.DefaultSkewRate,
		Report:           DefaultReport,
		ProgressInterval: DefaultProgressInterval,
		LogLevel:         DefaultLogLevel,
	}
}

// ValidationError lists every problem found in a Config. It unwraps to the
// sentinel errors behind those problems so callers can use errors.Is.
type ValidationError struct {
	issues []string
	causes []error
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (e ValidationError) Unwrap() []error {
	return e.causes
}

func (c Config) Validate() error {
	var v validator

	method, err := policy.ParseMethod(c.Method)
	if err != nil {
		v.fail(err, "method: %v", err)
	} else if method.NeedsKeys() && strings.TrimSpace(c.KeysFile) == "" {
		v.fail(keystore.ErrMissingKeysFile, "keys is required for method %s (use --help for usage information)", method)
	}

	if c.Num < 0 {
		v.add("num must be non-negative")
	}
	if c.BodySize <= 0 {
		v.add("body_size must be greater than 0")
	}
	if c.RewriteProb <= 0 || c.RewriteProb > 1 {
		v.add("rewrite_prob must be in (0, 1]")
	}
	if c.SkewRate <= 0 {
		v.add("skew_rate must be greater than 0")
	}
	if c.ProgressInterval <= 0 {
		v.add("progress_interval must be greater than 0")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		v.add("output_dir cannot be empty")
	}

	switch keystore.Format(c.KeysFormat) {
	case keystore.FormatText, keystore.FormatCSV, keystore.FormatJSON:
	default:
		v.add("keys_format must be one of text, csv, json")
	}
	switch output.Format(c.Report) {
	case output.FormatText, output.FormatJSON, output.FormatYAML, output.FormatNone:
	default:
		v.add("report must be one of text, json, yaml, none")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		v.add("log_level: %v", err)
	}

	if len(v.issues) > 0 {
		return ValidationError{issues: v.issues, causes: v.causes}
	}
	return nil
}

type validator struct {
	issues []string
	causes []error
}

func (v *validator) add(format string, args ...any) {
	v.issues = append(v.issues, fmt.Sprintf(format, args...))
}

func (v *validator) fail(cause error, format string, args ...any) {
	v.add(format, args...)
	v.causes = append(v.causes, cause)
}
