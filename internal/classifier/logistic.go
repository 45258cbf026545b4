package classifier

import (
	"math"

	"intent/internal/geom"
)

// Fixed hyperparameters of the design, deliberately not configurable: the
// model is a simple reproducible baseline, not a tuned one.
const (
	learningRate = 0.1
	iterations   = 1000
)

type logisticModel struct {
	W1   float64 `json:"w1"`
	W2   float64 `json:"w2"`
	Bias float64 `json:"bias"`
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// fitLogistic runs batch gradient descent on the cross-entropy gradient over
// the full standardized training set each iteration, in input order, from
// zero weights. No shuffling, no convergence check: identical input always
// yields identical weights.
func fitLogistic(scaled []geom.Point, records []Record) logisticModel {
	var w1, w2, b float64
	m := float64(len(records))
	for t := 0; t < iterations; t++ {
		var g1, g2, gb float64
		for i := range scaled {
			z := w1*scaled[i][0] + w2*scaled[i][1] + b
			diff := sigmoid(z) - float64(records[i].Label)
			g1 += diff * scaled[i][0]
			g2 += diff * scaled[i][1]
			gb += diff
		}
		w1 -= learningRate * g1 / m
		w2 -= learningRate * g2 / m
		b -= learningRate * gb / m
	}
	return logisticModel{W1: w1, W2: w2, Bias: b}
}

// PredictLogistic standardizes the raw query and scores it through the
// sigmoid link. Out-of-range and non-finite inputs are extrapolated, not
// rejected; NaN propagates arithmetically.
func (e *Engine) PredictLogistic(f1, f2 float64) *Prediction {
	x1, x2 := e.scaling.Standardize(f1, f2)
	p := sigmoid(e.model.W1*x1 + e.model.W2*x2 + e.model.Bias)
	return &Prediction{Purchased: p >= 0.5, Probability: p}
}
