// Package accuracy reports the training-set accuracy of an entity's engine
// over HTTP.
package accuracy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"intent/internal/classifier"
	"intent/internal/dispatcher"
	"intent/internal/httputil"
	"intent/internal/logging"
)

const maxBodyBytes = 1 * 1024 * 1024

type request struct {
	EntityID  string `json:"entity"`
	Algorithm string `json:"algorithm"`
}

type response struct {
	EntityID    string  `json:"entity"`
	Algorithm   string  `json:"algorithm"`
	Accuracy    float64 `json:"accuracy"`
	DatasetSize int     `json:"datasetSize"`
}

func NewHandler(cfg *Config, scorer dispatcher.Scorer) (http.Handler, error) {
	return &handler{
		scorer: scorer,
		cfg:    cfg,
	}, nil
}

type handler struct {
	scorer dispatcher.Scorer
	cfg    *Config
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	logger := logging.FromContext(ctx)

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		logger.Debug(fmt.Sprintf(`{"error": "method %v is not allowed"}`, r.Method))
		_, _ = fmt.Fprintf(w, `{"error": "method %v is not allowed"}`, r.Method)
		return
	}

	if t := r.Header.Get("content-type"); len(t) < 16 || t[:16] != "application/json" {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		logger.Debug(fmt.Sprintf(`{"error": "%v"}`, "content-type is not application/json"))
		_, _ = fmt.Fprintf(w, `{"error": "%v"}`, "content-type is not application/json")
		return
	}

	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	d := json.NewDecoder(r.Body)
	if err := d.Decode(&req); err != nil {
		httputil.DecodeErr(ctx, w, err)
		return
	}

	alg, err := classifier.ParseAlgorithm(req.Algorithm)
	if err != nil {
		httputil.RespBadRequest(ctx, w, `{"error": "unknown algorithm %q"}`, req.Algorithm)
		return
	}

	accuracy, size, err := h.scorer.Accuracy(ctx, req.EntityID, alg)
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "accuracy processing error, %v"}`, err)
		return
	}

	bytes, err := json.Marshal(response{
		EntityID:    req.EntityID,
		Algorithm:   string(alg),
		Accuracy:    accuracy,
		DatasetSize: size,
	})
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "failed to encode output json %v"}`, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(bytes)
}
