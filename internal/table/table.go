// Package table holds the canonical tabular form that every metrics block is
// reduced to before grading and rendering.
//
// A Table is a slice of rows. Row 0 is the header (unique column names); the
// remaining rows hold cell values aligned positionally to the header. Cells are
// nil, a number (int64, int or float64), a bool or a string.
package table

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// KeyColumn names the identity column produced by FromMapping.
const KeyColumn = "example"

var (
	// ErrMissingInput is returned when a referenced file does not exist.
	ErrMissingInput = errors.New("input does not exist")
	// ErrUnsupportedFormat is returned for file types that cannot become a table.
	ErrUnsupportedFormat = errors.New("unsupported table format")
	// ErrUnknownColumn is returned when a caller names a column the header lacks.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrRagged is returned when a row is not as long as the header.
	ErrRagged = errors.New("row length differs from header")
)

// Table is an ordered sequence of rows whose first row is the header.
type Table [][]any

// Header returns the column names.
func (t Table) Header() []string {
	if len(t) == 0 {
		return nil
	}
	out := make([]string, len(t[0]))
	for i, v := range t[0] {
		if s, ok := v.(string); ok {
			out[i] = s
		} else {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// Rows returns the data rows (everything below the header).
func (t Table) Rows() [][]any {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// Empty reports whether the table lacks even a header.
func (t Table) Empty() bool { return len(t) == 0 }

// ColumnIndex returns the position of name in the header, or -1.
func (t Table) ColumnIndex(name string) int {
	return slices.Index(t.Header(), name)
}

// Clone returns a copy whose rows can be modified independently.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, row := range t {
		out[i] = slices.Clone(row)
	}
	return out
}

// Validate checks the rectangular and unique-header invariants.
func (t Table) Validate() error {
	if len(t) == 0 {
		return nil
	}
	width := len(t[0])
	seen := make(map[string]struct{}, width)
	for _, name := range t.Header() {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = struct{}{}
	}
	for i, row := range t[1:] {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d cells, header has %d", ErrRagged, i+1, len(row), width)
		}
	}
	return nil
}

// Rotate exchanges rows and columns. Applying it twice to a rectangular table
// yields the original table.
func Rotate(t Table) (Table, error) {
	if len(t) == 0 {
		return Table{}, nil
	}
	width := len(t[0])
	for i, row := range t {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrRagged, i, len(row), width)
		}
	}
	out := make(Table, width)
	for c := 0; c < width; c++ {
		col := make([]any, len(t))
		for r := range t {
			col[r] = t[r][c]
		}
		out[c] = col
	}
	return out, nil
}

// Project reorders and filters the columns of t to columns. An empty request
// keeps every column. The identity column (the first header cell) is prepended
// when the request omits it. Requested columns the source lacks are filled with
// nil rather than rejected.
func Project(t Table, columns []string) Table {
	if len(t) == 0 {
		return Table{}
	}
	header := t.Header()
	if len(header) == 0 {
		return t.Clone()
	}
	if len(columns) == 0 {
		columns = header
	}
	if !slices.Contains(columns, header[0]) {
		columns = append([]string{header[0]}, columns...)
	}

	idx := make([]int, len(columns))
	for i, name := range columns {
		idx[i] = slices.Index(header, name)
	}

	headRow := make([]any, len(columns))
	for i, name := range columns {
		headRow[i] = name
	}
	out := Table{headRow}
	for _, row := range t.Rows() {
		newRow := make([]any, len(columns))
		for i, j := range idx {
			if j >= 0 && j < len(row) {
				newRow[i] = row[j]
			}
		}
		out = append(out, newRow)
	}
	return out
}

// Sort returns a copy of t with its data rows stably sorted by the tuple of
// values in keys, compared lexicographically with Compare. When a key is not in
// the header the copy is returned unsorted together with an error wrapping
// ErrUnknownColumn; callers treat that as a recoverable configuration problem.
func Sort(t Table, keys []string) (Table, error) {
	out := t.Clone()
	if len(out) < 2 || len(keys) == 0 {
		return out, nil
	}
	header := out.Header()
	idx := make([]int, len(keys))
	for i, k := range keys {
		j := slices.Index(header, k)
		if j < 0 {
			return out, fmt.Errorf("%w: %q is not a column of [%s]", ErrUnknownColumn, k, strings.Join(header, ", "))
		}
		idx[i] = j
	}
	rows := out[1:]
	slices.SortStableFunc(rows, func(a, b []any) int {
		for _, j := range idx {
			if c := Compare(cell(a, j), cell(b, j)); c != 0 {
				return c
			}
		}
		return 0
	})
	return out, nil
}

func cell(row []any, j int) any {
	if j < len(row) {
		return row[j]
	}
	return nil
}

// Compare orders cell values: nil first, then numbers (bools count as 0/1)
// by value, then strings lexicographically.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case rankNumber:
		fa, _ := numeric(a)
		fb, _ := numeric(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case rankString:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
	return 0
}

const (
	rankNil = iota
	rankNumber
	rankString
)

func rank(v any) int {
	if v == nil {
		return rankNil
	}
	if _, ok := numeric(v); ok {
		return rankNumber
	}
	return rankString
}
