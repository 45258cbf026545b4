package classifier

import "math"

// Scaling holds per-feature standardization parameters computed once from a
// training set. A zero standard deviation is substituted with 1.0 so that a
// constant feature standardizes to its centered value instead of dividing
// by zero.
type Scaling struct {
	Mean   [2]float64 `json:"mean"`
	StdDev [2]float64 `json:"stdDev"`
}

func newScaling(records []Record) Scaling {
	var s Scaling
	n := float64(len(records))
	for _, r := range records {
		s.Mean[0] += r.Feature1
		s.Mean[1] += r.Feature2
	}
	s.Mean[0] /= n
	s.Mean[1] /= n

	var v0, v1 float64
	for _, r := range records {
		d0 := r.Feature1 - s.Mean[0]
		d1 := r.Feature2 - s.Mean[1]
		v0 += d0 * d0
		v1 += d1 * d1
	}
	s.StdDev[0] = sqrtOrOne(v0 / n)
	s.StdDev[1] = sqrtOrOne(v1 / n)
	return s
}

func sqrtOrOne(variance float64) float64 {
	sd := math.Sqrt(variance)
	if sd == 0 {
		return 1.0
	}
	return sd
}

// Standardize maps raw features to (value - mean) / stdDev using the stored
// parameters. Applied identically to training data and to every query.
func (s Scaling) Standardize(f1, f2 float64) (float64, float64) {
	return (f1 - s.Mean[0]) / s.StdDev[0], (f2 - s.Mean[1]) / s.StdDev[1]
}
