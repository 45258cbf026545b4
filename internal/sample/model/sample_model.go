package model

import (
	"time"

	"github.com/google/uuid"

	"intent/internal/classifier"
	"intent/internal/geom"
)

// NewSample builds a labeled observation for an entity's dataset. Label must
// be 0 or 1; callers validate at the boundary.
func NewSample(entityID string, features geom.Point, label int, createdAt time.Time, extra interface{}) Sample {
	return Sample{
		ID:        uuid.New(),
		EntityID:  entityID,
		Features:  features,
		Label:     label,
		CreatedAt: createdAt,
		Extra:     extra,
	}
}

type Sample struct {
	ID        uuid.UUID   `json:"id"`
	EntityID  string      `json:"entityId"`
	Features  geom.Point  `json:"features"`
	Label     int         `json:"label"`
	CreatedAt time.Time   `json:"createdAt"`
	Extra     interface{} `json:"extra"`
}

func (s Sample) Point() geom.Point {
	return s.Features
}

func (s Sample) Time() time.Time {
	return s.CreatedAt
}

// Record maps the sample onto the engine's two-feature training record.
func (s Sample) Record() classifier.Record {
	return classifier.Record{
		Feature1: s.Features.Dim(0),
		Feature2: s.Features.Dim(1),
		Label:    s.Label,
	}
}
