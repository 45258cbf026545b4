package geom

import (
	"math"
)

// Point is a feature vector in raw or standardized coordinate space.
type Point []float64

func NewPoint(vec []float64) Point {
	return vec
}

func (p Point) Dimensions() int {
	return len(p)
}

func (p Point) Dim(idx int) float64 {
	return p[idx]
}

func (p Point) Points() []float64 {
	return p
}

func (p Point) Copy() Point {
	var p1 = make(Point, len(p))
	copy(p1, p)
	return p1
}

func (p Point) Scale(value float64) {
	for i := range p {
		p[i] *= value
	}
}

func (p Point) Map(applyFn func(float64) float64) Point {
	var p1 = make(Point, len(p))
	for i := range p {
		p1[i] = applyFn(p[i])
	}
	return p1
}

func (p Point) Magnitude() float64 {
	result := 0.0
	for i := range p {
		result += math.Pow(p[i], 2)
	}
	return math.Sqrt(result)
}

func (p Point) Sum() float64 {
	var s float64
	for i := range p {
		s += p[i]
	}
	return s
}

func (p Point) Mean() float64 {
	return p.Sum() / float64(len(p))
}

// StdDev is the population standard deviation, dividing by n rather than n-1.
func (p Point) StdDev() float64 {
	if len(p) == 0 {
		return 0
	}
	mean := p.Mean()
	var s float64
	for i := range p {
		d := p[i] - mean
		s += d * d
	}
	return math.Sqrt(s / float64(len(p)))
}

func (p Point) SizeEqual(p1 Point) bool {
	return len(p) == len(p1)
}

func (p Point) Equal(p1 Point) bool {
	if len(p) != len(p1) {
		return false
	}
	for i, value := range p {
		if p1[i] != value {
			return false
		}
	}
	return true
}
