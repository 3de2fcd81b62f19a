// Package criteria grades table cells against per-column pass criteria and
// tallies the outcome.
//
// A criterion is either a comparator tag with a numeric threshold (lt, gt, le,
// ge, abs_lt) or a boolean expression over the single variable x. Expressions
// run in a Starlark interpreter whose only names are x and abs, with a step
// budget, so a criterion can compare but cannot reach anything else.
package criteria

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
)

// ErrIndeterminate marks a value or expression that could not be graded.
var ErrIndeterminate = errors.New("criterion could not be evaluated")

// Op is a comparator tag.
type Op string

const (
	OpLT    Op = "lt"
	OpGT    Op = "gt"
	OpLE    Op = "le"
	OpGE    Op = "ge"
	OpAbsLT Op = "abs_lt"
)

// maxSteps bounds the work one expression evaluation may do.
const maxSteps = 10_000

// Criterion decides whether a single numeric value passes.
type Criterion struct {
	Op        Op      `json:"op,omitempty" mapstructure:"op"`
	Threshold float64 `json:"threshold,omitempty" mapstructure:"threshold"`
	Expr      string  `json:"expr,omitempty" mapstructure:"expr"`
}

// Compare builds a comparator criterion.
func Compare(op Op, threshold float64) Criterion {
	return Criterion{Op: op, Threshold: threshold}
}

// AbsBelow is shorthand for Compare(OpAbsLT, threshold).
func AbsBelow(threshold float64) Criterion {
	return Compare(OpAbsLT, threshold)
}

// Expression builds an expression criterion over x.
func Expression(expr string) Criterion {
	return Criterion{Expr: strings.TrimSpace(expr)}
}

// Parse reads the textual form used in settings files: either "<op> <number>"
// (for example "abs_lt 0.2") or an expression such as "abs(x) < 0.2".
func Parse(s string) (Criterion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Criterion{}, errors.New("empty criterion")
	}
	if fields := strings.Fields(s); len(fields) == 2 {
		op := Op(strings.ToLower(fields[0]))
		if op.valid() {
			th, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return Criterion{}, fmt.Errorf("criterion %q: bad threshold: %w", s, err)
			}
			return Compare(op, th), nil
		}
	}
	return Expression(s), nil
}

func (op Op) valid() bool {
	switch op {
	case OpLT, OpGT, OpLE, OpGE, OpAbsLT:
		return true
	}
	return false
}

// String renders the criterion as an expression over x.
func (c Criterion) String() string {
	if c.Expr != "" {
		return c.Expr
	}
	th := strconv.FormatFloat(c.Threshold, 'g', -1, 64)
	switch c.Op {
	case OpLT:
		return "x < " + th
	case OpGT:
		return "x > " + th
	case OpLE:
		return "x <= " + th
	case OpGE:
		return "x >= " + th
	case OpAbsLT:
		return "abs(x) < " + th
	}
	return string(c.Op) + " " + th
}

// Evaluate applies the criterion to x.
func (c Criterion) Evaluate(x float64) (bool, error) {
	if c.Expr != "" {
		return evalExpr(c.Expr, x)
	}
	if math.IsNaN(x) {
		return false, fmt.Errorf("%w: NaN", ErrIndeterminate)
	}
	switch c.Op {
	case OpLT:
		return x < c.Threshold, nil
	case OpGT:
		return x > c.Threshold, nil
	case OpLE:
		return x <= c.Threshold, nil
	case OpGE:
		return x >= c.Threshold, nil
	case OpAbsLT:
		return math.Abs(x) < c.Threshold, nil
	}
	return false, fmt.Errorf("%w: unknown comparator %q", ErrIndeterminate, c.Op)
}

var absBuiltin = starlark.NewBuiltin("abs", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case starlark.Int:
		if n.Sign() < 0 {
			return starlark.MakeInt(0).Sub(n), nil
		}
		return n, nil
	case starlark.Float:
		return starlark.Float(math.Abs(float64(n))), nil
	}
	return nil, fmt.Errorf("abs: got %s, want number", v.Type())
})

func evalExpr(expr string, x float64) (bool, error) {
	thread := &starlark.Thread{
		Name:  "criterion",
		Print: func(*starlark.Thread, string) {},
	}
	thread.SetMaxExecutionSteps(maxSteps)
	env := starlark.StringDict{
		"x":   starlark.Float(x),
		"abs": absBuiltin,
	}
	v, err := starlark.Eval(thread, "criterion", expandChains(expr), env) //nolint:staticcheck // SA1019: EvalOptions migration pending
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrIndeterminate, expr, err)
	}
	return bool(v.Truth()), nil
}

// expandChains rewrites chained comparisons such as "0 < x <= 1", which
// Starlark rejects, into "(0 < x and x <= 1)". Only comparisons outside of
// brackets and strings are considered; segments are split on and/or.
func expandChains(expr string) string {
	var (
		out      strings.Builder
		operands []string
		ops      []string
		segStart int
		start    int
		depth    int
		quote    byte
	)
	flush := func(end int) {
		if len(ops) < 2 {
			out.WriteString(strings.TrimSpace(expr[segStart:end]))
		} else {
			operands = append(operands, strings.TrimSpace(expr[start:end]))
			links := make([]string, len(ops))
			for i, op := range ops {
				links[i] = operands[i] + " " + op + " " + operands[i+1]
			}
			out.WriteString("(" + strings.Join(links, " and ") + ")")
		}
		operands, ops = nil, nil
	}

	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case depth > 0:
		case c == '<' || c == '>' || c == '=' || c == '!':
			op := string(c)
			if i+1 < len(expr) && expr[i+1] == '=' {
				op += "="
			}
			if op == "=" || op == "!" {
				continue
			}
			operands = append(operands, strings.TrimSpace(expr[start:i]))
			ops = append(ops, op)
			i += len(op) - 1
			start = i + 1
		default:
			if kw := keywordAt(expr, i); kw != "" {
				flush(i)
				out.WriteString(" " + kw + " ")
				i += len(kw) - 1
				segStart, start = i+1, i+1
			}
		}
	}
	flush(len(expr))
	return out.String()
}

func keywordAt(expr string, i int) string {
	for _, kw := range []string{"and", "or"} {
		end := i + len(kw)
		if !strings.HasPrefix(expr[i:], kw) {
			continue
		}
		if i > 0 && isIdentByte(expr[i-1]) {
			continue
		}
		if end < len(expr) && isIdentByte(expr[end]) {
			continue
		}
		return kw
	}
	return ""
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
