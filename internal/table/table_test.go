package table

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMapping(t *testing.T, doc string) *ordered.Map {
	t.Helper()
	v, err := ordered.DecodeJSON(strings.NewReader(doc))
	require.NoError(t, err)
	return v.(*ordered.Map)
}

func sample() Table {
	return Table{
		{"example", "idx", "score"},
		{"b", int64(1), 0.5},
		{"a", int64(0), 0.25},
		{"c", int64(1), 0.75},
		{"d", int64(0), nil},
	}
}

func TestFromMappingUnionsMetricsInFirstSeenOrder(t *testing.T) {
	m := mustMapping(t, `{"m1": {"x": 1, "y": 2}, "m2": {"z": 3, "x": 4}, "m3": {}}`)

	got, err := FromMapping(m)
	require.NoError(t, err)

	want := Table{
		{"example", "x", "y", "z"},
		{"m1", int64(1), int64(2), nil},
		{"m2", int64(4), nil, int64(3)},
		{"m3", nil, nil, nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FromMapping mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, got.Validate())
}

func TestFromMappingRejectsScalarRows(t *testing.T) {
	_, err := FromMapping(mustMapping(t, `{"m1": 3}`))
	require.Error(t, err)
}

func TestRotateIsInvolution(t *testing.T) {
	orig := sample()
	once, err := Rotate(orig)
	require.NoError(t, err)
	assert.Len(t, once, 3)
	assert.Len(t, once[0], 5)

	twice, err := Rotate(once)
	require.NoError(t, err)
	if diff := cmp.Diff(orig, twice); diff != "" {
		t.Fatalf("rotate twice mismatch (-want +got):\n%s", diff)
	}
}

func TestRotateRejectsRaggedTable(t *testing.T) {
	_, err := Rotate(Table{{"a", "b"}, {1}})
	require.True(t, errors.Is(err, ErrRagged))
}

func TestProjectPrependsKeyAndFillsMissing(t *testing.T) {
	got := Project(sample(), []string{"score", "absent"})
	want := Table{
		{"example", "score", "absent"},
		{"b", 0.5, nil},
		{"a", 0.25, nil},
		{"c", 0.75, nil},
		{"d", nil, nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Project mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	cols := []string{"score", "idx", "absent"}
	once := Project(sample(), cols)
	twice := Project(once, cols)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("projection not idempotent (-once +twice):\n%s", diff)
	}
}

func TestProjectEmptyRequestKeepsAllColumns(t *testing.T) {
	if diff := cmp.Diff(sample(), Project(sample(), nil)); diff != "" {
		t.Fatalf("unexpected change (-want +got):\n%s", diff)
	}
}

func TestSortIsStableAndNonDecreasing(t *testing.T) {
	got, err := Sort(sample(), []string{"idx"})
	require.NoError(t, err)

	var keys []string
	for _, row := range got.Rows() {
		keys = append(keys, row[0].(string))
	}
	// a and d share idx 0, b and c share idx 1: original relative order kept.
	assert.Equal(t, []string{"a", "d", "b", "c"}, keys)

	for i := 1; i < len(got.Rows()); i++ {
		assert.LessOrEqual(t, Compare(got.Rows()[i-1][1], got.Rows()[i][1]), 0)
	}
}

func TestSortMultipleKeys(t *testing.T) {
	got, err := Sort(sample(), []string{"idx", "score"})
	require.NoError(t, err)
	var keys []string
	for _, row := range got.Rows() {
		keys = append(keys, row[0].(string))
	}
	// nil sorts before numbers.
	assert.Equal(t, []string{"d", "a", "b", "c"}, keys)
}

func TestSortUnknownKeyReturnsUnsorted(t *testing.T) {
	orig := sample()
	got, err := Sort(orig, []string{"idx", "nope"})
	require.True(t, errors.Is(err, ErrUnknownColumn))
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Fatalf("table changed despite error (-want +got):\n%s", diff)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	orig := sample()
	_, err := Sort(orig, []string{"score"})
	require.NoError(t, err)
	assert.Equal(t, "b", orig[1][0])
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{0.00001234, "1.23e-05"},
		{3.14159265, "3.1416"},
		{nil, Placeholder},
		{"n/a", "n/a"},
		{int64(7), "7"},
		{0.0, "0.00e+00"},
		{-2.5, "-2.5000"},
		{true, "True"},
		{false, "False"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in), "FormatValue(%v)", tt.in)
	}
}

func TestToFloat(t *testing.T) {
	f, ok := ToFloat(" 1.5 ")
	require.True(t, ok)
	assert.Equal(t, 1.5, f)

	_, ok = ToFloat("abc")
	assert.False(t, ok)
	_, ok = ToFloat(nil)
	assert.False(t, ok)

	f, ok = ToFloat(int64(3))
	require.True(t, ok)
	assert.Equal(t, 3.0, f)
}

func TestFromFileDispatch(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "t.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,value\nx, 1\ny,2\n"), 0o644))
	got, err := FromFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, Table{{"name", "value"}, {"x", "1"}, {"y", "2"}}, got)

	jsonPath := filepath.Join(dir, "t.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"k": {"a": 1}}`), 0o644))
	got, err = FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, Table{{"example", "a"}, {"k", int64(1)}}, got)

	_, err = FromFile(filepath.Join(dir, "missing.csv"))
	require.True(t, errors.Is(err, ErrMissingInput))

	txtPath := filepath.Join(dir, "t.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o644))
	_, err = FromFile(txtPath)
	require.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestFromScalarsSkipsNested(t *testing.T) {
	got, skipped := FromScalars(mustMapping(t, `{"a": 1, "b": {"c": 2}, "d": "x", "e": null}`))
	assert.Equal(t, Table{{"metric", "value"}, {"a", int64(1)}, {"d", "x"}, {"e", nil}}, got)
	assert.Equal(t, []string{"b"}, skipped)
}
