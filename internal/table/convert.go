package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
)

// FromMapping turns key -> (metric -> value) into a table. The header is
// KeyColumn followed by the union of metric names in first-seen order; a key
// lacking a metric gets nil in that column.
func FromMapping(values *ordered.Map) (Table, error) {
	var metrics []string
	seen := make(map[string]struct{})
	rows := make([]*ordered.Map, 0, values.Len())
	for _, key := range values.Keys() {
		v, _ := values.Get(key)
		row, ok := v.(*ordered.Map)
		if !ok {
			if v != nil {
				return nil, fmt.Errorf("value of %q is %T, expected a mapping of metrics", key, v)
			}
			row = ordered.NewMap()
		}
		rows = append(rows, row)
		for _, m := range row.Keys() {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			metrics = append(metrics, m)
		}
	}

	head := make([]any, 0, len(metrics)+1)
	head = append(head, KeyColumn)
	for _, m := range metrics {
		head = append(head, m)
	}
	out := Table{head}
	for i, key := range values.Keys() {
		r := make([]any, 0, len(head))
		r = append(r, key)
		for _, m := range metrics {
			v, _ := rows[i].Get(m)
			r = append(r, v)
		}
		out = append(out, r)
	}
	return out, nil
}

// FromScalars lists a flat key -> scalar mapping as (metric, value) rows.
// Non-scalar values are returned in skipped and left out of the table.
func FromScalars(values *ordered.Map) (t Table, skipped []string) {
	t = Table{{"metric", "value"}}
	for _, key := range values.Keys() {
		v, _ := values.Get(key)
		switch v.(type) {
		case *ordered.Map, []any:
			skipped = append(skipped, key)
			continue
		}
		t = append(t, []any{key, v})
	}
	return t, skipped
}

// FromFile reads a .csv or .json table, choosing the reader by extension.
func FromFile(path string) (Table, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FromCSVFile(path)
	case ".json", ".yaml", ".yml":
		return FromMappingFile(path)
	default:
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, filepath.Ext(path), path)
	}
}

// FromCSVFile reads a comma separated file; its first record is the header.
// Cells are kept as strings.
func FromCSVFile(path string) (Table, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make(Table, 0, len(records))
	for _, rec := range records {
		row := make([]any, len(rec))
		for i, c := range rec {
			row[i] = strings.TrimSpace(c)
		}
		out = append(out, row)
	}
	return out, nil
}

// FromMappingFile decodes a JSON or YAML object of key -> metrics and passes
// it to FromMapping.
func FromMappingFile(path string) (Table, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	m, err := ReadMapping(path)
	if err != nil {
		return nil, err
	}
	t, err := FromMapping(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadMapping decodes path and requires the document to be an object.
func ReadMapping(path string) (*ordered.Map, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	v, err := ordered.DecodeFile(path)
	if err != nil {
		if errors.Is(err, ordered.ErrUnsupportedFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	m, ok := v.(*ordered.Map)
	if !ok {
		return nil, fmt.Errorf("%s: top-level value is %T, expected an object", path, v)
	}
	return m, nil
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
