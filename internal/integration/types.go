package integration

import "time"

type Sample struct {
	Vec       []float64   `json:"vector"`
	Label     int         `json:"label,omitempty"`
	Extra     interface{} `json:"extra,omitempty"`
	CreatedAt time.Time   `json:"createdAt,omitempty"`
}

type CollectRequest struct {
	EntityID string   `json:"entity"`
	Data     []Sample `json:"data"`
}

type PredictRequest struct {
	EntityID  string   `json:"entity"`
	Algorithm string   `json:"algorithm"`
	K         int      `json:"k,omitempty"`
	Data      []Sample `json:"data"`
}

type AccuracyRequest struct {
	EntityID  string `json:"entity"`
	Algorithm string `json:"algorithm"`
}

type PredictResponseItem struct {
	Purchased   bool        `json:"purchased"`
	Probability float64     `json:"probability"`
	Vec         []float64   `json:"vector"`
	Extra       interface{} `json:"extra"`
}

type PredictResponse struct {
	EntityID  string                `json:"entity"`
	Algorithm string                `json:"algorithm"`
	Data      []PredictResponseItem `json:"data"`
}

type AccuracyResponse struct {
	EntityID    string  `json:"entity"`
	Algorithm   string  `json:"algorithm"`
	Accuracy    float64 `json:"accuracy"`
	DatasetSize int     `json:"datasetSize"`
}
