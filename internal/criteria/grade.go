package criteria

import (
	"github.com/jqliu1995/Code-for-APEX/internal/logging"
	"github.com/jqliu1995/Code-for-APEX/internal/table"
)

// Grade is the outcome of judging one value.
type Grade int

const (
	// Indeterminate means the value could not be coerced or the criterion
	// failed to evaluate. It is neither pass nor fail and is not tallied.
	Indeterminate Grade = iota
	Pass
	Fail
)

func (g Grade) String() string {
	switch g {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	}
	return "indeterminate"
}

// AllKey is the reserved tally key counting rows in which no graded column failed.
const AllKey = "all"

// Rule binds a criterion to a column.
type Rule struct {
	Column    string
	Criterion Criterion
}

// Set is an ordered list of column rules. Order is the display order of the
// criteria legend.
type Set []Rule

// Lookup returns the criterion for column.
func (s Set) Lookup(column string) (Criterion, bool) {
	for _, r := range s {
		if r.Column == column {
			return r.Criterion, true
		}
	}
	return Criterion{}, false
}

// Judge coerces v to a number and evaluates c against it.
func Judge(v any, c Criterion) Grade {
	x, ok := table.ToFloat(v)
	if !ok {
		return Indeterminate
	}
	passed, err := c.Evaluate(x)
	if err != nil {
		logging.LogDiagnostic(logging.KindGradingAmbiguity, err.Error())
		return Indeterminate
	}
	if passed {
		return Pass
	}
	return Fail
}

// Count holds tally counters. Columns use Pass, NotPass and Indeterminate;
// the AllKey entry uses Pass and Total.
type Count struct {
	Pass          int `json:"pass"`
	NotPass       int `json:"notpass"`
	Indeterminate int `json:"indeterminate,omitempty"`
	Total         int `json:"total,omitempty"`
}

// Graded is Pass plus NotPass.
func (c Count) Graded() int { return c.Pass + c.NotPass }

// PassTally maps a column name (or AllKey) to its counters.
type PassTally map[string]Count

// All returns the row-level counters.
func (p PassTally) All() Count { return p[AllKey] }

// Cell is one rendered cell of a graded table.
type Cell struct {
	Value any
	Text  string
	// Graded is true when the column carries a criterion.
	Graded bool
	Grade  Grade
}

// GradedTable is a table whose cells carry display text and grades.
type GradedTable struct {
	Header []string
	Rows   [][]Cell
}

// Options selects what Apply displays and how rows are ordered.
type Options struct {
	// Columns is the display allow-list; empty means every column.
	Columns []string
	// Sort lists the sort key columns; empty means the identity column.
	Sort     []string
	Criteria Set
}

// Result is the output of Apply.
type Result struct {
	Table GradedTable
	Tally PassTally
	// Warnings holds recoverable configuration problems, such as a sort key
	// that is not a column. The table is still usable when set.
	Warnings []error
}

// Apply projects t to the requested columns, sorts it, grades every cell in
// a column that has a criterion and formats all cells for display.
func Apply(t table.Table, opts Options) Result {
	var res Result

	projected := table.Project(t, opts.Columns)
	keys := opts.Sort
	if len(keys) == 0 && len(projected) > 0 && len(projected[0]) > 0 {
		keys = projected.Header()[:1]
	}
	sorted, err := table.Sort(projected, keys)
	if err != nil {
		logging.LogDiagnostic(logging.KindConfigurationError, err.Error())
		res.Warnings = append(res.Warnings, err)
	}

	res.Tally = make(PassTally, len(opts.Criteria)+1)
	for _, r := range opts.Criteria {
		res.Tally[r.Column] = Count{}
	}
	rows := sorted.Rows()
	all := Count{Total: len(rows)}

	header := sorted.Header()
	res.Table.Header = header
	for _, row := range rows {
		out := make([]Cell, len(row))
		rowPassed := true
		for j, v := range row {
			c := Cell{Value: v, Text: table.FormatValue(v)}
			if j < len(header) {
				if crit, ok := opts.Criteria.Lookup(header[j]); ok {
					c.Graded = true
					c.Grade = Judge(v, crit)
					count := res.Tally[header[j]]
					switch c.Grade {
					case Pass:
						count.Pass++
					case Fail:
						count.NotPass++
						rowPassed = false
					default:
						count.Indeterminate++
					}
					res.Tally[header[j]] = count
				}
			}
			out[j] = c
		}
		if rowPassed {
			all.Pass++
		}
		res.Table.Rows = append(res.Table.Rows, out)
	}
	res.Tally[AllKey] = all
	return res
}
