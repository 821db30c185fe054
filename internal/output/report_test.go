package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/torosent/ammogen/internal/metrics"
)

func sampleSummary() Summary {
	return Summary{
		RunID:      "01HZX3K1V7Q4B8TQ1N5W3K9F2A",
		Method:     "mix",
		Tag:        "mix",
		Seed:       42,
		AmmoFile:   "mix.ammo",
		KeysFile:   "mix.keys",
		KeysLoaded: 3,
		KeysSaved:  55,
		Stats: metrics.Stats{
			Total:         100,
			Bytes:         20480,
			NewKeys:       52,
			Methods:       map[string]int64{"PUT": 52, "GET": 48},
			Tags:          map[string]int64{"put": 52, "get": 48},
			Duration:      2 * time.Second,
			DurationMs:    2000,
			RecordsPerSec: 50,
		},
	}
}

func TestPrintReportBasic(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, sampleSummary())

	output := buf.String()
	for _, want := range []string{"Ammo Generation Results", "mix.ammo", "mix.keys", "Records:           100", "Method Breakdown:", "PUT: 52 (52.0%)", "GET: 48 (48.0%)"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output:\n%s", want, output)
		}
	}
	if strings.Index(output, "GET:") > strings.Index(output, "PUT:") {
		t.Error("Expected methods sorted by name")
	}
}

func TestPrintReportOmitsKeysFileWhenUnset(t *testing.T) {
	summary := sampleSummary()
	summary.KeysFile = ""
	var buf bytes.Buffer
	PrintReport(&buf, summary)
	if strings.Contains(buf.String(), "Keys File:") {
		t.Error("Expected no keys file line")
	}
}

func TestPrintJSONReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, FormatJSON, sampleSummary()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["run_id"] != "01HZX3K1V7Q4B8TQ1N5W3K9F2A" {
		t.Errorf("run_id = %v", decoded["run_id"])
	}
	stats, ok := decoded["stats"].(map[string]interface{})
	if !ok {
		t.Fatalf("stats = %T, want object", decoded["stats"])
	}
	if stats["total"] != float64(100) {
		t.Errorf("stats.total = %v, want 100", stats["total"])
	}
}

func TestPrintYAMLReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, FormatYAML, sampleSummary()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	var decoded struct {
		Method string `yaml:"method"`
		Stats  struct {
			Total   int64            `yaml:"total"`
			Methods map[string]int64 `yaml:"methods"`
		} `yaml:"stats"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if decoded.Method != "mix" || decoded.Stats.Total != 100 || decoded.Stats.Methods["PUT"] != 52 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestPrintFormats(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, FormatNone, sampleSummary()); err != nil {
		t.Fatalf("Print(none) error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Print(none) wrote %q", buf.String())
	}
	if err := Print(&buf, "", sampleSummary()); err != nil || buf.Len() == 0 {
		t.Errorf("Print(default) error = %v, len = %d", err, buf.Len())
	}
	if err := Print(&buf, "xml", sampleSummary()); err == nil {
		t.Error("Print(xml) error = nil, want error")
	}
}
