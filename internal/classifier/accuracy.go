package classifier

import "fmt"

// Accuracy reruns the named algorithm over every training record, using its
// raw features as the query, and returns the matched fraction. This is
// training-set accuracy by definition: no train/test split exists and none
// is implied.
func (e *Engine) Accuracy(alg Algorithm) (float64, error) {
	matched := 0
	for _, r := range e.records {
		result, err := e.Predict(alg, r.Feature1, r.Feature2, e.opts.kNum)
		if err != nil {
			return 0, fmt.Errorf("unable to score %s on training set: %w", alg, err)
		}
		predicted := 0
		if result.Purchased {
			predicted = 1
		}
		if predicted == r.Label {
			matched++
		}
	}
	return float64(matched) / float64(len(e.records)), nil
}
