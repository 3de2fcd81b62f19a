package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jqliu1995/Code-for-APEX/internal/ordered"
)

// Placeholder is rendered in place of null cells.
const Placeholder = "---"

// Precision is the number of decimals used for fixed-point cells. Magnitudes
// below 10^-Precision switch to two-digit scientific notation.
const Precision = 4

var smallThreshold = math.Pow(10, -Precision)

// FormatValue renders a cell for display. Nulls become Placeholder, strings
// pass through, booleans read True or False, integers keep their digits and floats are rendered with
// Precision decimals or, when tiny, as scientific notation.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return Placeholder
	case string:
		return t
	case bool:
		if t {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	}
	f, ok := ordered.Number(v)
	if !ok {
		return fmt.Sprint(v)
	}
	if math.Abs(f) < smallThreshold {
		return fmt.Sprintf("%.2e", f)
	}
	return fmt.Sprintf("%.*f", Precision, f)
}

// ToFloat attempts the numeric coercion used by criteria: numbers, booleans
// and numeric strings convert; nil and other strings do not.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return ordered.Number(v)
}

// numeric is the ordering view of a value: real numbers and booleans only.
func numeric(v any) (float64, bool) {
	if b, ok := v.(bool); ok {
		if b {
			return 1, true
		}
		return 0, true
	}
	return ordered.Number(v)
}
