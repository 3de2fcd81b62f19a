package criteria

import (
	"errors"
	"testing"

	"github.com/jqliu1995/Code-for-APEX/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJudgeExpression(t *testing.T) {
	c := Expression("x > 0")
	assert.Equal(t, Pass, Judge(5, c))
	assert.Equal(t, Fail, Judge(-5, c))
	assert.Equal(t, Indeterminate, Judge("abc", c))
	assert.Equal(t, Indeterminate, Judge(nil, c))
	assert.Equal(t, Pass, Judge("2.5", c))
}

func TestJudgeChainedComparison(t *testing.T) {
	c := Expression("0 < x < 1")
	assert.Equal(t, Pass, Judge(0.5, c))
	assert.Equal(t, Fail, Judge(1.5, c))
	assert.Equal(t, Fail, Judge(0, c))

	mixed := Expression("abs(x) < 0.2 or 1 <= x <= 2")
	assert.Equal(t, Pass, Judge(-0.1, mixed))
	assert.Equal(t, Pass, Judge(1.5, mixed))
	assert.Equal(t, Fail, Judge(3, mixed))
	assert.Equal(t, "abs(x) < 0.2 or 1 <= x <= 2", mixed.String())
}

func TestExpandChains(t *testing.T) {
	tests := map[string]string{
		"x > 0":                   "x > 0",
		"abs(x) < 0.2":            "abs(x) < 0.2",
		"0 < x < 1":               "(0 < x and x < 1)",
		"-1 <= x != 0 < 5":        "(-1 <= x and x != 0 and 0 < 5)",
		"x == 1 or 0 < x <= 0.5":  "x == 1 or (0 < x and x <= 0.5)",
		"abs(x - 1) < 2 and x>=0": "abs(x - 1) < 2 and x>=0",
	}
	for in, want := range tests {
		assert.Equal(t, want, expandChains(in), in)
	}
}

func TestJudgeAbsExpression(t *testing.T) {
	c := Expression("abs(x) < 0.2")
	assert.Equal(t, Pass, Judge(-0.1, c))
	assert.Equal(t, Fail, Judge(0.3, c))
}

func TestMalformedExpressionIsIndeterminate(t *testing.T) {
	assert.Equal(t, Indeterminate, Judge(1.0, Expression("x >")))
	assert.Equal(t, Indeterminate, Judge(1.0, Expression("open('f')")))
	assert.Equal(t, Indeterminate, Judge(1.0, Expression("y < 2")))
}

func TestEvaluateReportsIndeterminate(t *testing.T) {
	_, err := Expression("x +").Evaluate(1)
	require.True(t, errors.Is(err, ErrIndeterminate))
}

func TestComparatorTags(t *testing.T) {
	tests := []struct {
		c    Criterion
		x    float64
		want bool
	}{
		{Compare(OpLT, 1), 0.5, true},
		{Compare(OpLT, 1), 1, false},
		{Compare(OpLE, 1), 1, true},
		{Compare(OpGT, 1), 2, true},
		{Compare(OpGE, 1), 0.99, false},
		{AbsBelow(0.2), -0.19, true},
		{AbsBelow(0.2), -0.21, false},
	}
	for _, tt := range tests {
		got, err := tt.c.Evaluate(tt.x)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s with x=%v", tt.c, tt.x)
	}
}

func TestParse(t *testing.T) {
	c, err := Parse("abs_lt 0.2")
	require.NoError(t, err)
	assert.Equal(t, AbsBelow(0.2), c)
	assert.Equal(t, "abs(x) < 0.2", c.String())

	c, err = Parse(" x < 1 ")
	require.NoError(t, err)
	assert.Equal(t, Expression("x < 1"), c)

	_, err = Parse("lt abc")
	require.Error(t, err)

	_, err = Parse("  ")
	require.Error(t, err)
}

func TestApplyGradesAndTallies(t *testing.T) {
	tbl := table.Table{
		{"example", "idx", "err", "note"},
		{"m2", int64(2), 0.5, "x"},
		{"m0", int64(0), 0.1, "y"},
		{"m1", int64(1), "abc", nil},
		{"m3", int64(3), -0.00001234, "z"},
	}
	res := Apply(tbl, Options{
		Sort:     []string{"idx"},
		Criteria: Set{{Column: "err", Criterion: AbsBelow(0.2)}},
	})
	require.Empty(t, res.Warnings)

	require.Equal(t, []string{"example", "idx", "err", "note"}, res.Table.Header)
	require.Len(t, res.Table.Rows, 4)

	var names []string
	for _, row := range res.Table.Rows {
		names = append(names, row[0].Text)
	}
	assert.Equal(t, []string{"m0", "m1", "m2", "m3"}, names)

	assert.Equal(t, Pass, res.Table.Rows[0][2].Grade)
	assert.Equal(t, "0.1000", res.Table.Rows[0][2].Text)
	assert.Equal(t, Indeterminate, res.Table.Rows[1][2].Grade)
	assert.Equal(t, "abc", res.Table.Rows[1][2].Text)
	assert.Equal(t, table.Placeholder, res.Table.Rows[1][3].Text)
	assert.Equal(t, Fail, res.Table.Rows[2][2].Grade)
	assert.Equal(t, "-1.23e-05", res.Table.Rows[3][2].Text)
	assert.True(t, res.Table.Rows[3][2].Graded)
	assert.False(t, res.Table.Rows[3][3].Graded)

	errCount := res.Tally["err"]
	assert.Equal(t, 2, errCount.Pass)
	assert.Equal(t, 1, errCount.NotPass)
	assert.Equal(t, 1, errCount.Indeterminate)
	assert.LessOrEqual(t, errCount.Graded(), len(res.Table.Rows))

	// m1 is indeterminate, which does not block the row.
	assert.Equal(t, Count{Pass: 3, Total: 4}, res.Tally.All())
}

func TestApplyUnknownSortKeyWarns(t *testing.T) {
	tbl := table.Table{{"example", "v"}, {"b", 1.0}, {"a", 2.0}}
	res := Apply(tbl, Options{Sort: []string{"missing"}})
	require.Len(t, res.Warnings, 1)
	assert.True(t, errors.Is(res.Warnings[0], table.ErrUnknownColumn))
	assert.Equal(t, "b", res.Table.Rows[0][0].Text)
}

func TestApplyDefaultsToKeySortAndColumnSubset(t *testing.T) {
	tbl := table.Table{{"example", "a", "b"}, {"z", 1.0, 2.0}, {"y", 3.0, 4.0}}
	res := Apply(tbl, Options{Columns: []string{"b"}})
	assert.Equal(t, []string{"example", "b"}, res.Table.Header)
	assert.Equal(t, "y", res.Table.Rows[0][0].Text)
	assert.Equal(t, "4.0000", res.Table.Rows[0][1].Text)
	assert.Equal(t, Count{Pass: 2, Total: 2}, res.Tally.All())
}
