package model

import (
	"time"

	"github.com/google/uuid"
)

func NewAlert(entityID, algorithm string, accuracy float64, datasetSize int) Alert {
	return Alert{
		ID:          uuid.New(),
		EntityID:    entityID,
		Algorithm:   algorithm,
		Accuracy:    accuracy,
		DatasetSize: datasetSize,
		CreatedAt:   time.Now(),
	}
}

// Alert records an engine whose training-set accuracy dropped below the
// configured floor.
type Alert struct {
	ID          uuid.UUID `json:"id"`
	EntityID    string    `json:"entityId"`
	Algorithm   string    `json:"algorithm"`
	Accuracy    float64   `json:"accuracy"`
	DatasetSize int       `json:"datasetSize"`
	CreatedAt   time.Time `json:"createdAt"`
}
