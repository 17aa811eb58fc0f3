package sweep

import (
	"math"
	"testing"
)

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestWeightRangeAscending(t *testing.T) {
	got, err := WeightRange(0.3, 0.7, 0.2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !floatsEqual(got, []float64{0.3, 0.5, 0.7}) {
		t.Fatalf("unexpected sequence: %v", got)
	}
	// endpoint not reachable exactly: stops at the largest value <= end
	got, err = WeightRange(0.1, 0.45, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if !floatsEqual(got, []float64{0.1, 0.2, 0.3, 0.4}) {
		t.Fatalf("unexpected sequence: %v", got)
	}
}

func TestWeightRangeDescending(t *testing.T) {
	got, err := WeightRange(0.7, 0.3, 0.2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !floatsEqual(got, []float64{0.7, 0.5, 0.3}) {
		t.Fatalf("unexpected sequence: %v", got)
	}
}

func TestWeightRangeSingleValue(t *testing.T) {
	for _, step := range []float64{0, 0.1, -1} {
		got, err := WeightRange(0.5, 0.5, step)
		if err != nil {
			t.Fatalf("step=%v: unexpected err: %v", step, err)
		}
		if !floatsEqual(got, []float64{0.5}) {
			t.Fatalf("step=%v: unexpected sequence: %v", step, got)
		}
	}
}

func TestWeightRangeRejectsBadStep(t *testing.T) {
	if _, err := WeightRange(0.1, 0.9, 0); err == nil {
		t.Fatal("expected error for zero step")
	}
	if _, err := WeightRange(0.1, 0.9, -0.1); err == nil {
		t.Fatal("expected error for negative step")
	}
	// a positive step that rounds to 0 at 3 decimals would loop forever
	if _, err := WeightRange(0.1, 0.9, 0.0004); err == nil {
		t.Fatal("expected error for step below the rounding resolution")
	}
	if _, err := WeightRange(0.1, 0.9, 0.001); err != nil {
		t.Fatalf("smallest representable step rejected: %v", err)
	}
}

func TestWeightRangeAccumulationStaysRounded(t *testing.T) {
	got, err := WeightRange(0.0, 1.0, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 11 {
		t.Fatalf("expected 11 values, got %d: %v", len(got), got)
	}
	for k, v := range got {
		want := Round(0.1*float64(k), 3)
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("element %d: got %v want %v", k, v, want)
		}
	}
}

func TestWeightPairsSumToOne(t *testing.T) {
	ws, err := WeightRange(0.0, 1.0, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range WeightPairs(ws) {
		if math.Abs(p[0]+p[1]-1.0) > 1e-6 {
			t.Fatalf("pair %v does not sum to 1", p)
		}
		if p[1] != Round(1-p[0], 3) {
			t.Fatalf("second weight not rounded complement: %v", p)
		}
	}
}

func TestSpanIncludesEndpointWithinHalfStep(t *testing.T) {
	got, err := Span(0.9, 1.1, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if !floatsEqual(got, []float64{0.9, 1.0, 1.1}) {
		t.Fatalf("unexpected sequence: %v", got)
	}
	got, err = Span(0.2, 0.3, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if !floatsEqual(got, []float64{0.2, 0.3}) {
		t.Fatalf("unexpected sequence: %v", got)
	}
}

func TestSpanDescending(t *testing.T) {
	got, err := Span(1.1, 0.9, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if !floatsEqual(got, []float64{1.1, 1.0, 0.9}) {
		t.Fatalf("unexpected sequence: %v", got)
	}
}

func TestSpanSingleValue(t *testing.T) {
	for _, step := range []float64{0, 0.1} {
		got, err := Span(1.0, 1.0, step)
		if err != nil {
			t.Fatalf("step=%v: unexpected err: %v", step, err)
		}
		if !floatsEqual(got, []float64{1.0}) {
			t.Fatalf("step=%v: unexpected sequence: %v", step, got)
		}
	}
	if _, err := Span(0.2, 0.4, 0); err == nil {
		t.Fatal("expected error for zero step over a real range")
	}
}

func TestCrossPairs(t *testing.T) {
	axis := []float64{0.2, 0.3}
	got := CrossPairs(axis, axis)
	want := [][2]float64{{0.2, 0.2}, {0.2, 0.3}, {0.3, 0.2}, {0.3, 0.3}}
	if len(got) != len(want) {
		t.Fatalf("expected %d pairs, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pair %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestSpanDeterminism(t *testing.T) {
	a, _ := Span(0.2, 0.8, 0.15)
	b, _ := Span(0.2, 0.8, 0.15)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic output at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestFormatValue(t *testing.T) {
	cases := map[float64]string{
		0.3: "0.3",
		1:   "1.0",
		0.5: "0.5",
	}
	for in, want := range cases {
		if got := FormatValue(in); got != want {
			t.Fatalf("FormatValue(%v) = %q, want %q", in, got, want)
		}
	}
}
