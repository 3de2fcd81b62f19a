package apex

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDerivationGap marks a derived value that could not be computed because
	// an input was absent, null or unusable. The value becomes null.
	ErrDerivationGap = errors.New("derivation gap")
	// ErrUnsupportedSymmetry is returned for point groups without a known set
	// of independent elastic components.
	ErrUnsupportedSymmetry = errors.New("unsupported point group symbol")
	// ErrNoSamples is returned when an average is requested over no values.
	ErrNoSamples = errors.New("no samples")
)

// TensorSize is the dimension of the Voigt elastic tensor.
const TensorSize = 6

// Tensor is a 6x6 elastic tensor in Voigt notation. Unknown entries are NaN.
type Tensor [TensorSize][TensorSize]float64

// At returns entry (i, j) or nil when it is unknown.
func (t Tensor) At(i, j int) *float64 {
	v := t[i][j]
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// ParseTensor reads a decoded 6x6 nested array. Null entries become NaN;
// anything else that is not a number, or a wrong shape, is an error.
func ParseTensor(v any) (Tensor, error) {
	var t Tensor
	rows, ok := v.([]any)
	if !ok || len(rows) != TensorSize {
		return t, fmt.Errorf("%w: elastic tensor is not a %dx%d array", ErrDerivationGap, TensorSize, TensorSize)
	}
	for i, r := range rows {
		cols, ok := r.([]any)
		if !ok || len(cols) != TensorSize {
			return t, fmt.Errorf("%w: elastic tensor row %d is not %d long", ErrDerivationGap, i, TensorSize)
		}
		for j, c := range cols {
			if c == nil {
				t[i][j] = math.NaN()
				continue
			}
			f, ok := number(c)
			if !ok {
				return t, fmt.Errorf("%w: elastic tensor entry (%d,%d) is %T", ErrDerivationGap, i, j, c)
			}
			t[i][j] = f
		}
	}
	return t, nil
}

// symmetryComponents lists the independent (i, j) entries compared for each
// supported point group.
var symmetryComponents = map[string][][2]int{
	"m-3m":  {{0, 0}, {0, 1}, {3, 3}},
	"6/mmm": {{0, 0}, {0, 1}, {0, 2}, {2, 2}, {3, 3}},
	"mmm":   {{0, 0}, {0, 1}, {0, 2}, {2, 2}, {3, 3}},
	"4/mmm": {{0, 0}, {0, 1}, {0, 2}, {2, 2}, {3, 3}, {5, 5}},
	"-3m":   {{0, 0}, {0, 1}, {0, 2}, {2, 2}, {3, 3}, {5, 5}},
}

// Components returns the independent tensor entries for a point group.
func Components(pointGroup string) ([][2]int, error) {
	c, ok := symmetryComponents[pointGroup]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSymmetry, pointGroup)
	}
	return c, nil
}

// RelativeError is |predicted-actual| / |actual|.
func RelativeError(predicted, actual float64) (float64, error) {
	if actual == 0 {
		return 0, fmt.Errorf("%w: reference value is zero", ErrDerivationGap)
	}
	if math.IsNaN(predicted) || math.IsNaN(actual) {
		return 0, fmt.Errorf("%w: NaN operand", ErrDerivationGap)
	}
	return math.Abs(predicted-actual) / math.Abs(actual), nil
}

// CijCV is the variation coefficient of the symmetry-selected components:
// sqrt(mean((p-a)^2)) / mean(a).
func CijCV(predicted, actual Tensor, pointGroup string) (float64, error) {
	comps, err := Components(pointGroup)
	if err != nil {
		return 0, err
	}
	var sumSq, sumRef float64
	for _, ij := range comps {
		p, a := predicted[ij[0]][ij[1]], actual[ij[0]][ij[1]]
		if math.IsNaN(p) || math.IsNaN(a) {
			return 0, fmt.Errorf("%w: c%d%d is unknown", ErrDerivationGap, ij[0]+1, ij[1]+1)
		}
		d := p - a
		sumSq += d * d
		sumRef += a
	}
	n := float64(len(comps))
	mean := sumRef / n
	if mean == 0 {
		return 0, fmt.Errorf("%w: mean of reference components is zero", ErrDerivationGap)
	}
	return math.Sqrt(sumSq/n) / mean, nil
}

// MAE is the mean absolute difference of two equal-length sequences.
func MAE(predicted, actual []float64) (float64, error) {
	if len(actual) == 0 {
		return 0, fmt.Errorf("%w: empty reference sequence", ErrDerivationGap)
	}
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("%w: %d points against %d reference points", ErrDerivationGap, len(predicted), len(actual))
	}
	var sum float64
	for i := range actual {
		if math.IsNaN(predicted[i]) || math.IsNaN(actual[i]) {
			return 0, fmt.Errorf("%w: point %d is unknown", ErrDerivationGap, i+1)
		}
		sum += math.Abs(predicted[i] - actual[i])
	}
	return sum / float64(len(actual)), nil
}

// Mean averages values; an empty slice yields ErrNoSamples.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoSamples
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}
