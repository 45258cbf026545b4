package classifier

import (
	"intent/internal/geom"
)

const DefaultKNum = 5

type Option func(*Engine)

func WithKNum(k int) Option {
	return func(e *Engine) {
		e.opts.kNum = k
	}
}

func WithDistance(f DistanceFn) Option {
	return func(e *Engine) {
		e.opts.distFn = f
	}
}

type Options struct {
	kNum   int
	distFn DistanceFn
}

// Engine is an immutable snapshot fitted to one training set. All state is
// computed at construction, so concurrent queries need no locking; swapping
// in a new dataset means constructing a new Engine.
type Engine struct {
	opts    Options
	records []Record
	scaled  []geom.Point
	scaling Scaling
	model   logisticModel
}

// New fits an engine to the given records. It fails only for an empty
// training set: mean and variance are undefined there. Degenerate sets
// (a single record, constant features) construct fine, see Scaling.
func New(records []Record, opts ...Option) (*Engine, error) {
	if len(records) == 0 {
		return nil, ErrEmptyTrainingSet
	}

	e := &Engine{
		opts:    Options{kNum: DefaultKNum, distFn: geom.EuclideanDistance},
		records: make([]Record, len(records)),
	}
	copy(e.records, records)
	for _, opt := range opts {
		opt(e)
	}
	if e.opts.kNum <= 0 {
		e.opts.kNum = DefaultKNum
	}

	e.scaling = newScaling(e.records)
	e.scaled = make([]geom.Point, len(e.records))
	for i, r := range e.records {
		x1, x2 := e.scaling.Standardize(r.Feature1, r.Feature2)
		e.scaled[i] = geom.Point{x1, x2}
	}
	e.model = fitLogistic(e.scaled, e.records)

	return e, nil
}

func (e *Engine) Len() int {
	return len(e.records)
}

func (e *Engine) KNum() int {
	return e.opts.kNum
}

func (e *Engine) Scaling() Scaling {
	return e.scaling
}

// Predict dispatches to the named algorithm. A k of 0 or less selects the
// engine's configured neighbor count.
func (e *Engine) Predict(alg Algorithm, f1, f2 float64, k int) (*Prediction, error) {
	switch alg {
	case AlgorithmLogisticRegression:
		return e.PredictLogistic(f1, f2), nil
	case AlgorithmKNN:
		return e.PredictKNN(f1, f2, k)
	default:
		return nil, ErrUnknownAlgorithm
	}
}
