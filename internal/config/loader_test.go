package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestToString(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{"seed.keys", "seed.keys"},
		{123, "123"},
		{float64(1.5), "1.5"},
		{true, "true"},
		{nil, ""},
	}

	for _, tt := range tests {
		got, err := toString(tt.input)
		if err != nil {
			t.Errorf("toString(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("toString(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if _, err := toString([]any{"a"}); err == nil {
		t.Errorf("toString(list) error = nil, want error")
	}
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		input any
		want  int64
	}{
		{int64(1) << 40, 1 << 40},
		{uint64(12), 12},
		{"-42", -42},
		{7, 7},
		{float64(99), 99},
		{"", 0},
		{nil, 0},
	}

	for _, tt := range tests {
		got, err := toInt64(tt.input)
		if err != nil {
			t.Errorf("toInt64(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("toInt64(%v) = %d, want %d", tt.input, got, tt.want)
		}
	}

	for _, bad := range []any{"nope", 2.5, uint64(1) << 63, float64(1 << 63), true} {
		if _, err := toInt64(bad); err == nil {
			t.Errorf("toInt64(%v) error = nil, want error", bad)
		}
	}
}

func TestToInt(t *testing.T) {
	got, err := toInt(float64(1000000))
	if err != nil || got != 1000000 {
		t.Errorf("toInt(1e6) = %d, %v, want 1000000", got, err)
	}
	if _, err := toInt("1.5"); err == nil {
		t.Errorf("toInt(1.5) error = nil, want error")
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		input any
		want  float64
	}{
		{0.25, 0.25},
		{"0.5", 0.5},
		{1, 1},
		{int64(3), 3},
		{nil, 0},
	}

	for _, tt := range tests {
		got, err := toFloat(tt.input)
		if err != nil {
			t.Errorf("toFloat(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("toFloat(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := toFloat(false); err == nil {
		t.Errorf("toFloat(false) error = nil, want error")
	}
}

func TestToBool(t *testing.T) {
	tests := []struct {
		input any
		want  bool
	}{
		{true, true},
		{"true", true},
		{"1", true},
		{false, false},
		{"false", false},
		{nil, false},
	}

	for _, tt := range tests {
		got, err := toBool(tt.input)
		if err != nil {
			t.Errorf("toBool(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("toBool(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := toBool(1); err == nil {
		t.Errorf("toBool(1) error = nil, want error")
	}
}

func TestToDuration(t *testing.T) {
	tests := []struct {
		input any
		want  time.Duration
	}{
		{"250ms", 250 * time.Millisecond},
		{10, 10 * time.Second},
		{float64(1.5), 1500 * time.Millisecond},
		{"", 0},
		{nil, 0},
	}

	for _, tt := range tests {
		got, err := toDuration(tt.input)
		if err != nil {
			t.Errorf("toDuration(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("toDuration(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := toDuration("soon"); err == nil {
		t.Errorf("toDuration(soon) error = nil, want error")
	}
}

func TestSetting(t *testing.T) {
	settings := map[string]any{"keys_format": "csv"}

	if got, ok := setting(settings, "keysformat", "keys_format"); !ok || got != "csv" {
		t.Errorf("setting() = %v, %v, want csv, true", got, ok)
	}
	if got, ok := setting(settings, "KEYS_FORMAT"); !ok || got != "csv" {
		t.Errorf("setting(KEYS_FORMAT) = %v, %v, want csv, true", got, ok)
	}
	if _, ok := setting(settings, "keys"); ok {
		t.Errorf("setting(keys) ok = true, want false")
	}
}

func TestApplyConfigSettings(t *testing.T) {
	cfg := Defaults()
	settings := map[string]any{
		"method":            "put_rew",
		"num":               float64(500),
		"keys":              " seed.keys ",
		"keys_format":       "csv",
		"keys-field":        "id",
		"output_dir":        "out",
		"body_size":         64,
		"rewrite_prob":      0.25,
		"skew_rate":         "0.5",
		"seed":              float64(7),
		"report":            "yaml",
		"progress":          true,
		"progress_interval": "2s",
		"log_level":         "debug",
	}

	if err := applyConfigSettings(&cfg, settings); err != nil {
		t.Fatalf("applyConfigSettings() error = %v", err)
	}

	if cfg.Method != "put_rew" {
		t.Errorf("Method = %q, want put_rew", cfg.Method)
	}
	if cfg.Num != 500 {
		t.Errorf("Num = %d, want 500", cfg.Num)
	}
	if cfg.KeysFile != "seed.keys" {
		t.Errorf("KeysFile = %q, want seed.keys", cfg.KeysFile)
	}
	if cfg.KeysFormat != "csv" || cfg.KeysField != "id" {
		t.Errorf("KeysFormat/KeysField = %q/%q, want csv/id", cfg.KeysFormat, cfg.KeysField)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir = %q, want out", cfg.OutputDir)
	}
	if cfg.BodySize != 64 {
		t.Errorf("BodySize = %d, want 64", cfg.BodySize)
	}
	if cfg.RewriteProb != 0.25 {
		t.Errorf("RewriteProb = %v, want 0.25", cfg.RewriteProb)
	}
	if cfg.SkewRate != 0.5 {
		t.Errorf("SkewRate = %v, want 0.5", cfg.SkewRate)
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}
	if cfg.Report != "yaml" {
		t.Errorf("Report = %q, want yaml", cfg.Report)
	}
	if !cfg.Progress || cfg.ProgressInterval != 2*time.Second {
		t.Errorf("Progress = %v/%v, want true/2s", cfg.Progress, cfg.ProgressInterval)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestApplyConfigSettingsRejectsBadValues(t *testing.T) {
	cases := map[string]any{
		"num":       "many",
		"seed":      "x",
		"progress":  "sometimes",
		"body_size": 2.5,
	}
	for key, val := range cases {
		cfg := Defaults()
		if err := applyConfigSettings(&cfg, map[string]any{key: val}); err == nil {
			t.Errorf("applyConfigSettings(%s=%v) error = nil, want error", key, val)
		}
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := Defaults()
	cfg.Method = "get"
	cfg.KeysFile = "from-file.keys"

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	configureFlags(fs)

	args := []string{
		"--method=mix",
		"-n", "42",
		"--seed=9",
		"--progress",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if err := applyFlagOverrides(&cfg, fs); err != nil {
		t.Fatalf("applyFlagOverrides() error = %v", err)
	}

	if cfg.Method != "mix" {
		t.Errorf("Method = %q, want mix", cfg.Method)
	}
	if cfg.Num != 42 {
		t.Errorf("Num = %d, want 42", cfg.Num)
	}
	if cfg.Seed != 9 {
		t.Errorf("Seed = %d, want 9", cfg.Seed)
	}
	if !cfg.Progress {
		t.Errorf("Progress = false, want true")
	}
	if cfg.KeysFile != "from-file.keys" {
		t.Errorf("KeysFile = %q, want value kept from file", cfg.KeysFile)
	}
}
