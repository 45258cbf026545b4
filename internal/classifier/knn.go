package classifier

import (
	"fmt"

	"intent/pkg/pqueue"
)

// PredictKNN votes among the k training records closest to the query in
// standardized feature space. Distance ties break by original input order
// (the capped queue is stable), and the majority threshold is strict: an
// exact tie at even k resolves to not purchased. A k larger than the
// training set degrades to every record being a neighbor.
func (e *Engine) PredictKNN(f1, f2 float64, k int) (*Prediction, error) {
	if k <= 0 {
		k = e.opts.kNum
	}
	x1, x2 := e.scaling.Standardize(f1, f2)
	query := []float64{x1, x2}

	pq := pqueue.New[int](pqueue.WithCap[int](uint(k)))
	for i := range e.scaled {
		distance, err := e.opts.distFn(query, e.scaled[i].Points())
		if err != nil {
			return nil, fmt.Errorf(
				"unable to compute distance between %v and %v: %w",
				query, e.scaled[i].Points(), err,
			)
		}
		pq.Push(e.records[i].Label, distance)
	}

	purchased := 0
	for _, label := range pq.PopAll() {
		if label == 1 {
			purchased++
		}
	}
	return &Prediction{
		Purchased:   float64(purchased) > float64(k)/2,
		Probability: float64(purchased) / float64(k),
	}, nil
}
