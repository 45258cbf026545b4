package geom

import (
	"math"
	"testing"
)

func TestPoint_Dimensions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		expected int
	}{
		{name: "positive", p: NewPoint([]float64{42, 76000}), expected: 2},
		{name: "positive", p: NewPoint([]float64{1, 2, 3, 4, 5}), expected: 5},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			cmp := test.p.Dimensions()
			if cmp != test.expected {
				t.Errorf("the comparison is incorrect got: %v, expected: %v", cmp, test.expected)
			}
		})
	}
}

func TestPoint_Equal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		p1       Point
		expected bool
	}{
		{name: "positive", p: NewPoint([]float64{20, 20000}), p1: NewPoint([]float64{20, 20000}), expected: true},
		{name: "negative", p: NewPoint([]float64{20, 20000}), p1: NewPoint([]float64{60, 140000}), expected: false},
		{name: "negative", p: NewPoint([]float64{20, 20000}), p1: NewPoint([]float64{20}), expected: false},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := test.p.Equal(test.p1); got != test.expected {
				t.Errorf("the comparison is incorrect got: %v, expected: %v", got, test.expected)
			}
		})
	}
}

func TestPoint_Mean(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		expected float64
	}{
		{name: "positive", p: NewPoint([]float64{20, 60}), expected: 40},
		{name: "positive", p: NewPoint([]float64{1, 2, 3}), expected: 2},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := test.p.Mean(); got != test.expected {
				t.Errorf("mean computed incorrectly got: %v, expected: %v", got, test.expected)
			}
		})
	}
}

func TestPoint_StdDev(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		expected float64
	}{
		// population convention: divide by n, not n-1
		{name: "positive", p: NewPoint([]float64{20, 60}), expected: 20},
		{name: "positive", p: NewPoint([]float64{2, 4, 4, 4, 5, 5, 7, 9}), expected: 2},
		{name: "constant", p: NewPoint([]float64{40, 40, 40}), expected: 0},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := test.p.StdDev(); math.Abs(got-test.expected) > 1e-12 {
				t.Errorf("std dev computed incorrectly got: %v, expected: %v", got, test.expected)
			}
		})
	}
}
