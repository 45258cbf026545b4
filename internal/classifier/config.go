package classifier

import (
	"fmt"

	"intent/internal/geom"
)

type DistanceFuncType string

const (
	DistanceFuncTypeEuclidean DistanceFuncType = "EUCLIDEAN"
	DistanceFuncTypeChebyshev DistanceFuncType = "CHEBYSHEV"
	DistanceFuncTypeManhattan DistanceFuncType = "MANHATTAN"
)

type Config struct {
	KNum           int              `envconfig:"INTENT_CLASSIFIER_K_NUM" default:"5"`
	MetricFuncType DistanceFuncType `envconfig:"INTENT_CLASSIFIER_DISTANCE_FUNC" default:"EUCLIDEAN"`
}

func DistanceFuncFor(d DistanceFuncType) (DistanceFn, error) {
	switch d {
	case DistanceFuncTypeChebyshev:
		return geom.ChebyshevDistance, nil
	case DistanceFuncTypeEuclidean:
		return geom.EuclideanDistance, nil
	case DistanceFuncTypeManhattan:
		return geom.ManhattanDistance, nil
	default:
		return nil, fmt.Errorf("unknown distance function: %s", d)
	}
}
