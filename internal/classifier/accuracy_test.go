package classifier

import (
	"errors"
	"testing"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name     string
		records  []Record
		alg      Algorithm
		expected float64
	}{
		{
			// everything predicts the only class
			name: "all_positive_labels_knn",
			records: []Record{
				{Feature1: 25, Feature2: 30000, Label: 1},
				{Feature1: 35, Feature2: 60000, Label: 1},
				{Feature1: 45, Feature2: 90000, Label: 1},
				{Feature1: 55, Feature2: 120000, Label: 1},
			},
			alg:      AlgorithmKNN,
			expected: 1.0,
		},
		{
			name: "all_positive_labels_logistic_regression",
			records: []Record{
				{Feature1: 25, Feature2: 30000, Label: 1},
				{Feature1: 35, Feature2: 60000, Label: 1},
				{Feature1: 45, Feature2: 90000, Label: 1},
				{Feature1: 55, Feature2: 120000, Label: 1},
			},
			alg:      AlgorithmLogisticRegression,
			expected: 1.0,
		},
		{
			name:     "separable_set_logistic_regression",
			records:  trainingSet(),
			alg:      AlgorithmLogisticRegression,
			expected: 1.0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e, err := New(test.records)
			if err != nil {
				t.Fatalf("constructing the engine, unexpected err: %v", err)
			}
			got, err := e.Accuracy(test.alg)
			if err != nil {
				t.Fatalf("computing accuracy, unexpected err: %v", err)
			}
			if got != test.expected {
				t.Errorf("accuracy got: %v, expected: %v", got, test.expected)
			}
		})
	}
}

func TestAccuracyRange(t *testing.T) {
	e, err := New(trainingSet())
	if err != nil {
		t.Fatalf("constructing the engine, unexpected err: %v", err)
	}
	for _, alg := range []Algorithm{AlgorithmLogisticRegression, AlgorithmKNN} {
		got, err := e.Accuracy(alg)
		if err != nil {
			t.Fatalf("computing accuracy, unexpected err: %v", err)
		}
		if got < 0 || got > 1 {
			t.Errorf("accuracy for %s out of range: %v", alg, got)
		}
	}
}

func TestAccuracyUnknownAlgorithm(t *testing.T) {
	e, err := New(trainingSet())
	if err != nil {
		t.Fatalf("constructing the engine, unexpected err: %v", err)
	}
	if _, err := e.Accuracy(Algorithm("random-forest")); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("scoring an unknown algorithm, err got: %v, expected: %v", err, ErrUnknownAlgorithm)
	}
}
