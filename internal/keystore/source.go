package keystore

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// Format names the layout of a keys file.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

const (
	// DefaultCSVField is the CSV header naming the key column.
	DefaultCSVField = "key"
	// DefaultJSONPath selects the "key" member of every object in a top-level array.
	DefaultJSONPath = "#.key"
)

// Source describes where keys are loaded from.
type Source struct {
	Path   string
	Format Format
	// Field is the CSV column name or the gjson path, depending on Format.
	Field string
}

// Load reads the source into a new store. A missing file yields an empty
// store and exists=false; any other read failure is returned.
func Load(src Source) (store *Store, exists bool, err error) {
	f, err := os.Open(src.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), false, nil
		}
		return nil, false, fmt.Errorf("open keys file: %w", err)
	}
	defer f.Close()

	var keys []string
	switch src.Format {
	case "", FormatText:
		keys, err = readText(f)
	case FormatCSV:
		keys, err = readCSV(f, src.Field)
	case FormatJSON:
		keys, err = readJSON(f, src.Field)
	default:
		return nil, true, fmt.Errorf("unsupported keys format %q", src.Format)
	}
	if err != nil {
		return nil, true, err
	}
	return New(keys...), true, nil
}

func readText(r io.Reader) ([]string, error) {
	var keys []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if key := strings.TrimSpace(scanner.Text()); key != "" {
			keys = append(keys, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read keys file: %w", err)
	}
	return keys, nil
}

// readCSV takes keys from the column named field, or from the first column
// when the header has no such name.
func readCSV(r io.Reader, field string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	if field == "" {
		field = DefaultCSVField
	}
	col := 0
	for i, name := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(name), field) {
			col = i
			break
		}
	}

	keys := make([]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if col >= len(row) {
			return nil, fmt.Errorf("row %d has %d fields, key column is %d", i+2, len(row), col+1)
		}
		if key := strings.TrimSpace(row[col]); key != "" {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// readJSON evaluates a gjson path against the document. String results and
// arrays of strings become keys; "@this" on an array of strings selects them all.
func readJSON(r io.Reader, path string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read JSON: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode JSON: invalid document")
	}
	if path == "" {
		path = DefaultJSONPath
		if root := gjson.ParseBytes(data); root.IsArray() {
			if first := root.Get("0"); first.Type == gjson.String {
				path = "@this"
			}
		}
	}

	var keys []string
	var collect func(res gjson.Result)
	collect = func(res gjson.Result) {
		switch {
		case res.IsArray():
			res.ForEach(func(_, v gjson.Result) bool {
				collect(v)
				return true
			})
		case res.Type == gjson.String, res.Type == gjson.Number:
			if key := strings.TrimSpace(res.String()); key != "" {
				keys = append(keys, key)
			}
		}
	}
	collect(gjson.GetBytes(data, path))
	return keys, nil
}
