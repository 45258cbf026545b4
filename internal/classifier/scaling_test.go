package classifier

import (
	"math"
	"testing"
)

func TestNewScaling(t *testing.T) {
	tests := []struct {
		name           string
		records        []Record
		expectedMean   [2]float64
		expectedStdDev [2]float64
	}{
		{
			name: "positive",
			records: []Record{
				{Feature1: 20, Feature2: 20000, Label: 0},
				{Feature1: 60, Feature2: 140000, Label: 1},
			},
			expectedMean:   [2]float64{40, 80000},
			expectedStdDev: [2]float64{20, 60000},
		},
		{
			// zero variance substitutes 1.0, so the feature standardizes to
			// its centered value rather than failing
			name: "constant_feature",
			records: []Record{
				{Feature1: 40, Feature2: 30000, Label: 0},
				{Feature1: 40, Feature2: 90000, Label: 1},
				{Feature1: 40, Feature2: 60000, Label: 1},
			},
			expectedMean:   [2]float64{40, 60000},
			expectedStdDev: [2]float64{1, 24494.897427831782},
		},
		{
			name:           "single_record",
			records:        []Record{{Feature1: 33, Feature2: 50000, Label: 1}},
			expectedMean:   [2]float64{33, 50000},
			expectedStdDev: [2]float64{1, 1},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newScaling(test.records)
			for i := 0; i < 2; i++ {
				if math.Abs(s.Mean[i]-test.expectedMean[i]) > 1e-9 {
					t.Errorf("mean[%d] got: %v, expected: %v", i, s.Mean[i], test.expectedMean[i])
				}
				if math.Abs(s.StdDev[i]-test.expectedStdDev[i]) > 1e-9 {
					t.Errorf("stdDev[%d] got: %v, expected: %v", i, s.StdDev[i], test.expectedStdDev[i])
				}
			}
		})
	}
}

func TestScalingStandardize(t *testing.T) {
	tests := []struct {
		name       string
		scaling    Scaling
		f1, f2     float64
		expected1  float64
		expected2  float64
	}{
		{
			name:      "positive",
			scaling:   Scaling{Mean: [2]float64{40, 80000}, StdDev: [2]float64{20, 60000}},
			f1:        60,
			f2:        140000,
			expected1: 1,
			expected2: 1,
		},
		{
			name:      "positive",
			scaling:   Scaling{Mean: [2]float64{40, 80000}, StdDev: [2]float64{20, 60000}},
			f1:        20,
			f2:        20000,
			expected1: -1,
			expected2: -1,
		},
		{
			// substituted std of 1 means the centered value passes through
			name:      "degenerate_feature",
			scaling:   Scaling{Mean: [2]float64{40, 60000}, StdDev: [2]float64{1, 30000}},
			f1:        47,
			f2:        60000,
			expected1: 7,
			expected2: 0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			x1, x2 := test.scaling.Standardize(test.f1, test.f2)
			if x1 != test.expected1 || x2 != test.expected2 {
				t.Errorf("standardize(%v, %v) got: (%v, %v), expected: (%v, %v)",
					test.f1, test.f2, x1, x2, test.expected1, test.expected2)
			}
		})
	}
}

func TestConstantFeatureConstruction(t *testing.T) {
	records := []Record{
		{Feature1: 40, Feature2: 20000, Label: 0},
		{Feature1: 40, Feature2: 80000, Label: 1},
		{Feature1: 40, Feature2: 140000, Label: 1},
	}
	e, err := New(records)
	if err != nil {
		t.Fatalf("constructing with a constant feature must not fail, err: %v", err)
	}
	if got := e.Scaling().StdDev[0]; got != 1.0 {
		t.Errorf("zero variance std dev got: %v, expected substituted: %v", got, 1.0)
	}
	x1, _ := e.Scaling().Standardize(47, 80000)
	if x1 != 7 {
		t.Errorf("constant feature standardization got: %v, expected centered value: %v", x1, 7.0)
	}
}
