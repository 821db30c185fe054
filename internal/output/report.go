package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/torosent/ammogen/internal/metrics"
)

// Format selects how a run summary is printed.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatNone Format = "none"
)

// Summary describes a finished generation run.
type Summary struct {
	RunID      string        `json:"run_id" yaml:"run_id"`
	Method     string        `json:"method" yaml:"method"`
	Tag        string        `json:"tag" yaml:"tag"`
	Seed       int64         `json:"seed" yaml:"seed"`
	AmmoFile   string        `json:"ammo_file" yaml:"ammo_file"`
	KeysFile   string        `json:"keys_file,omitempty" yaml:"keys_file,omitempty"`
	KeysLoaded int           `json:"keys_loaded" yaml:"keys_loaded"`
	KeysSaved  int           `json:"keys_saved" yaml:"keys_saved"`
	Stats      metrics.Stats `json:"stats" yaml:"stats"`
}

// Print writes the summary in the requested format.
func Print(w io.Writer, format Format, summary Summary) error {
	switch format {
	case "", FormatText:
		PrintReport(w, summary)
		return nil
	case FormatJSON:
		return PrintJSONReport(w, summary)
	case FormatYAML:
		return PrintYAMLReport(w, summary)
	case FormatNone:
		return nil
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, summary Summary) {
	stats := summary.Stats
	fmt.Fprintln(w, "--- Ammo Generation Results ---")
	fmt.Fprintf(w, "Run ID:            %s\n", summary.RunID)
	fmt.Fprintf(w, "Method:            %s (tag %s)\n", summary.Method, summary.Tag)
	fmt.Fprintf(w, "Seed:              %d\n", summary.Seed)
	fmt.Fprintf(w, "Ammo File:         %s\n", summary.AmmoFile)
	if summary.KeysFile != "" {
		fmt.Fprintf(w, "Keys File:         %s\n", summary.KeysFile)
	}
	fmt.Fprintf(w, "Keys Loaded:       %d\n", summary.KeysLoaded)
	fmt.Fprintf(w, "Keys Saved:        %d\n", summary.KeysSaved)
	fmt.Fprintf(w, "Records:           %d\n", stats.Total)
	fmt.Fprintf(w, "Bytes:             %d\n", stats.Bytes)
	fmt.Fprintf(w, "New Keys:          %d\n", stats.NewKeys)
	fmt.Fprintf(w, "Rewrites:          %d\n", stats.Rewrites)
	fmt.Fprintf(w, "Duration:          %s\n", stats.Duration)
	fmt.Fprintf(w, "Records/sec:       %.2f\n", stats.RecordsPerSec)

	if len(stats.Methods) > 0 {
		fmt.Fprintln(w, "\nMethod Breakdown:")
		for _, name := range sortedKeys(stats.Methods) {
			count := stats.Methods[name]
			fmt.Fprintf(w, "  - %s: %d (%.1f%%)\n", name, count, stats.Share(name)*100)
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// PrintYAMLReport outputs a YAML-formatted report.
func PrintYAMLReport(w io.Writer, summary Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return err
	}
	return enc.Close()
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
