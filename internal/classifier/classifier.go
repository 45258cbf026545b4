// Package classifier fits two binary purchase-decision models to a labeled
// (age, income) dataset: a batch gradient-descent logistic regression and a
// k-nearest-neighbors vote over standardized feature space.
package classifier

import (
	"fmt"
)

var (
	ErrEmptyTrainingSet = fmt.Errorf("training set is empty")
	ErrUnknownAlgorithm = fmt.Errorf("unknown algorithm")
)

type Algorithm string

const (
	AlgorithmLogisticRegression Algorithm = "logistic-regression"
	AlgorithmKNN                Algorithm = "knn"
)

func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AlgorithmLogisticRegression:
		return AlgorithmLogisticRegression, nil
	case AlgorithmKNN:
		return AlgorithmKNN, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Record is one labeled training observation. Label must be exactly 0 or 1;
// anything else is a caller error and is not handled here.
type Record struct {
	Feature1 float64 `json:"feature1"`
	Feature2 float64 `json:"feature2"`
	Label    int     `json:"label"`
}

type Prediction struct {
	Purchased   bool    `json:"purchased"`
	Probability float64 `json:"probability"`
}

type DistanceFn func(vec, vec1 []float64) (float64, error)
