package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-0.5, 0, 1, 0},
		{1.5, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
		{0.5, 1, 0, 0.5}, // swapped bounds
	}

	for _, c := range cases {
		got := Clamp(c.value, c.min, c.max)
		if got != c.want {
			t.Fatalf("Clamp(%v, %v, %v) = %v, want %v", c.value, c.min, c.max, got, c.want)
		}
	}
}

func TestWrap(t *testing.T) {
	cases := []struct {
		value, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-0.125, 0, 1, 0.875},
		{1.25, 0, 1, 0.25},
		{-2.25, 0, 1, 0.75},
		{3.5, 0, 1, 0.5},
		{0, 0, 1, 0},
		{1, 0, 1, 0},
		{2.5, 1, 2, 1.5},
	}

	for _, c := range cases {
		got := Wrap(c.value, c.lo, c.hi)
		if math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("Wrap(%v, %v, %v) = %v, want %v", c.value, c.lo, c.hi, got, c.want)
		}
	}
}

func TestWrapDegenerateRange(t *testing.T) {
	if got := Wrap(0.5, 1, 1); got != 1 {
		t.Fatalf("Wrap with empty range = %v, want 1", got)
	}
}

func TestWrapStaysInRange(t *testing.T) {
	for i := -1000; i <= 1000; i++ {
		v := float64(i) * 0.0137
		got := Wrap(v, 0, 1)
		if got < 0 || got >= 1 {
			t.Fatalf("Wrap(%v, 0, 1) = %v out of [0, 1)", v, got)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(2, 6, 0); got != 2 {
		t.Fatalf("Lerp(2, 6, 0) = %v, want 2", got)
	}

	if got := Lerp(2, 6, 1); got != 6 {
		t.Fatalf("Lerp(2, 6, 1) = %v, want 6", got)
	}

	if got := Lerp(2, 6, 0.5); got != 4 {
		t.Fatalf("Lerp(2, 6, 0.5) = %v, want 4", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1, 1+1e-13, 1e-12) {
		t.Fatal("expected values within eps to compare equal")
	}

	if NearlyEqual(1, 1.1, 1e-12) {
		t.Fatal("expected distant values to compare unequal")
	}
}

func TestFlushDenormals(t *testing.T) {
	if got := FlushDenormals(1e-31); got != 0 {
		t.Fatalf("FlushDenormals(1e-31) = %v, want 0", got)
	}

	if got := FlushDenormals(0.5); got != 0.5 {
		t.Fatalf("FlushDenormals(0.5) = %v, want 0.5", got)
	}
}
