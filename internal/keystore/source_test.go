package keystore

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	store, exists, err := Load(Source{Path: filepath.Join(t.TempDir(), "nope.keys")})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if exists {
		t.Error("exists = true for missing file")
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestLoadSources(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		format  Format
		field   string
		want    []string
	}{
		{
			name:    "text keeps order and drops blanks and duplicates",
			file:    "get.keys",
			content: "c\n\n a \nb\nc\n",
			format:  FormatText,
			want:    []string{"c", "a", "b"},
		},
		{
			name:    "text without trailing newline",
			file:    "get.keys",
			content: "x\ny",
			want:    []string{"x", "y"},
		},
		{
			name:    "csv named column",
			file:    "keys.csv",
			content: "id,key\n1,k1\n2,k2\n",
			format:  FormatCSV,
			want:    []string{"k1", "k2"},
		},
		{
			name:    "csv custom column",
			file:    "keys.csv",
			content: "entity,owner\ne1,alice\ne2,bob\n",
			format:  FormatCSV,
			field:   "entity",
			want:    []string{"e1", "e2"},
		},
		{
			name:    "csv falls back to first column",
			file:    "keys.csv",
			content: "entity,owner\ne1,alice\n",
			format:  FormatCSV,
			want:    []string{"e1"},
		},
		{
			name:    "json array of objects",
			file:    "keys.json",
			content: `[{"key":"a1","size":3},{"key":"a2"}]`,
			format:  FormatJSON,
			want:    []string{"a1", "a2"},
		},
		{
			name:    "json array of strings",
			file:    "keys.json",
			content: `["s1","s2","s1"]`,
			format:  FormatJSON,
			want:    []string{"s1", "s2"},
		},
		{
			name:    "json custom path",
			file:    "keys.json",
			content: `{"data":{"entities":[{"id":"e1"},{"id":"e2"}]}}`,
			format:  FormatJSON,
			field:   "data.entities.#.id",
			want:    []string{"e1", "e2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			store, exists, err := Load(Source{Path: path, Format: tt.format, Field: tt.field})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !exists {
				t.Fatal("exists = false")
			}
			if got := store.Keys(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keys() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
	}{
		{"invalid json", `[{"key":`, FormatJSON},
		{"unknown format", "a\n", Format("xml")},
		{"malformed csv", "key\n\"unterminated\n", FormatCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "keys", tt.content)
			if _, _, err := Load(Source{Path: path, Format: tt.format}); err == nil {
				t.Fatal("Load() error = nil, want error")
			}
		})
	}
}
