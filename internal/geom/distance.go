package geom

import (
	"fmt"
	"math"
)

var ErrDimNotEqual = fmt.Errorf("vectors dimension is not equal")

// EuclideanDistance is the default metric for neighbor search in the
// standardized feature space.
func EuclideanDistance(vec, vec1 []float64) (float64, error) {
	if len(vec) != len(vec1) {
		return 0.0, ErrDimNotEqual
	}

	var s float64
	for i := range vec {
		d := vec[i] - vec1[i]
		s += d * d
	}
	return math.Sqrt(s), nil
}

func ChebyshevDistance(vec, vec1 []float64) (float64, error) {
	if len(vec) != len(vec1) {
		return 0.0, ErrDimNotEqual
	}

	var max float64
	for i := range vec {
		if d := math.Abs(vec[i] - vec1[i]); d > max {
			max = d
		}
	}
	return max, nil
}

func ManhattanDistance(vec, vec1 []float64) (float64, error) {
	if len(vec) != len(vec1) {
		return 0.0, ErrDimNotEqual
	}

	var s float64
	for i := range vec {
		s += math.Abs(vec[i] - vec1[i])
	}
	return s, nil
}
