// Package collect accepts labeled training samples over HTTP and feeds them
// to the dispatcher.
package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"intent/internal/dispatcher"
	"intent/internal/geom"
	"intent/internal/httputil"
	"intent/internal/logging"
	"intent/internal/sample/model"
)

const maxBodyBytes = 64 * 1024 * 1024

const featureDims = 2

type request struct {
	EntityID string `json:"entity"`
	Data     []struct {
		Vec       []float64   `json:"vector"`
		Label     int         `json:"label"`
		Extra     interface{} `json:"extra"`
		CreatedAt time.Time   `json:"createdAt"`
	} `json:"data"`
}

func NewHandler(cfg *Config, collector dispatcher.Collector) (http.Handler, error) {
	return &handler{
		collector: collector,
		cfg:       cfg,
	}, nil
}

type handler struct {
	collector dispatcher.Collector
	cfg       *Config
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

	if req.EntityID == "" {
		httputil.RespBadRequest(ctx, w, `{"error": "entity must not be empty"}`)
		return
	}

	for i := range req.Data {
		if len(req.Data[i].Vec) != featureDims {
			httputil.RespBadRequest(ctx, w, `{"error": "vector must have exactly %d components"}`, featureDims)
			return
		}
		if req.Data[i].Label != 0 && req.Data[i].Label != 1 {
			httputil.RespBadRequest(ctx, w, `{"error": "label must be 0 or 1, got %d"}`, req.Data[i].Label)
			return
		}
	}

	defer func() {
		logger.Infof("Collected %d samples for entity %s", len(req.Data), req.EntityID)
	}()
	go func() {
		sort.SliceStable(req.Data, func(i, j int) bool {
			return req.Data[i].CreatedAt.Before(req.Data[j].CreatedAt)
		})
		for _, dat := range req.Data {
			if err := h.collector.Collect(
				model.NewSample(req.EntityID, geom.NewPoint(dat.Vec), dat.Label, dat.CreatedAt, dat.Extra),
			); err != nil {
				logger.Errorf("error sending to collect service: %v", err)
			}
		}
	}()
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"status": "ok"}`)
}
