package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// weightTol is the endpoint-inclusion tolerance for weight ranges. Lambda and
// density spans use half a step width instead; the two sweep types disagree on
// purpose, and unifying them would change which boundary values are included.
const weightTol = 1e-6

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// WeightRange returns the ordered weight values from start toward end
// inclusive, rounded to 3 decimals at each accumulation step. The range
// descends when start > end. start == end yields exactly one value regardless
// of step.
func WeightRange(start, end, step float64) ([]float64, error) {
	if start != end && step <= 0 {
		return nil, fmt.Errorf("weight range %v..%v needs a positive step, got %v", start, end, step)
	}
	// Each accumulated value is rounded to 3 decimals, so a step below the
	// rounding resolution would never advance the cursor.
	if start != end && Round(step, 3) == 0 {
		return nil, fmt.Errorf("step %v is below the 3-decimal weight resolution", step)
	}
	var out []float64
	cur := start
	for {
		if start <= end {
			if cur > end+weightTol {
				break
			}
		} else {
			if cur < end-weightTol {
				break
			}
		}
		out = append(out, Round(cur, 3))
		if start == end {
			break
		}
		if start < end {
			cur = Round(cur+step, 3)
		} else {
			cur = Round(cur-step, 3)
		}
	}
	return out, nil
}

// WeightPairs expands weight values into (w, 1-w) pairs, the second weight
// rounded to 3 decimals so each pair sums to 1.0.
func WeightPairs(ws []float64) [][2]float64 {
	out := make([][2]float64, 0, len(ws))
	for _, w := range ws {
		out = append(out, [2]float64{w, Round(1-w, 3)})
	}
	return out
}

// Span returns start + k*step for k = 0,1,... while the value stays short of
// end by less than half a step, each value rounded to 2 decimals. The sign of
// step follows the direction of the range. start == end yields exactly one
// value regardless of step, including step 0.
func Span(start, end, step float64) ([]float64, error) {
	if start == end {
		return []float64{Round(start, 2)}, nil
	}
	if step == 0 {
		return nil, fmt.Errorf("span %v..%v needs a non-zero step", start, end)
	}
	step = math.Abs(step)
	if start > end {
		step = -step
	}
	stop := end + step/2
	var out []float64
	for k := 0; ; k++ {
		v := start + float64(k)*step
		if step > 0 && v >= stop {
			break
		}
		if step < 0 && v <= stop {
			break
		}
		out = append(out, Round(v, 2))
	}
	return out, nil
}

// CrossPairs returns the full cross-product of the two axis sequences, outer
// axis first.
func CrossPairs(a, b []float64) [][2]float64 {
	out := make([][2]float64, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			out = append(out, [2]float64{x, y})
		}
	}
	return out
}

// FormatValue renders a sweep value for file and directory names, keeping a
// trailing ".0" on whole numbers so names stay unambiguous (lambda_1.0, not
// lambda_1).
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
