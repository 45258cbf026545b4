// Package predict serves classification requests over HTTP, consulting the
// prediction cache before touching an engine.
package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"intent/internal/cache"
	"intent/internal/classifier"
	"intent/internal/dispatcher"
	"intent/internal/httputil"
	"intent/internal/logging"
)

const maxBodyBytes = 64 * 1024 * 1024

const featureDims = 2

// Service is the slice of the dispatcher the handler needs.
type Service interface {
	dispatcher.Predictor
	Revision(entityID string) uint64
}

type request struct {
	EntityID  string `json:"entity"`
	Algorithm string `json:"algorithm"`
	K         int    `json:"k"`
	Data      []struct {
		Vec   []float64   `json:"vector"`
		Extra interface{} `json:"extra"`
	} `json:"data"`
}

type responseItem struct {
	Purchased   bool        `json:"purchased"`
	Probability float64     `json:"probability"`
	Vec         []float64   `json:"vector"`
	Extra       interface{} `json:"extra"`
}

type response struct {
	EntityID  string         `json:"entity"`
	Algorithm string         `json:"algorithm"`
	Data      []responseItem `json:"data"`
}

func NewHandler(cfg *Config, svc Service, predictionCache *cache.Cache) (http.Handler, error) {
	return &handler{
		cfg:   cfg,
		svc:   svc,
		cache: predictionCache,
	}, nil
}

type handler struct {
	svc   Service
	cache *cache.Cache
	cfg   *Config
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

	if len(req.Data) > h.cfg.MaxDataItemsLen {
		httputil.RespBadRequest(ctx, w, `{"error": "data items is too large, max allowed len is %d"}`, h.cfg.MaxDataItemsLen)
		return
	}

	for i := range req.Data {
		if len(req.Data[i].Vec) != featureDims {
			httputil.RespBadRequest(ctx, w, `{"error": "vector must have exactly %d components"}`, featureDims)
			return
		}
	}

	revision := h.svc.Revision(req.EntityID)

	var respData []responseItem
	errGrp := errgroup.Group{}
	mtx := sync.Mutex{}
	for _, dat := range req.Data {
		dat := dat
		errGrp.Go(func() error {
			item, err := h.predictOne(ctx, req, alg, revision, dat.Vec)
			if err != nil {
				return err
			}
			item.Extra = dat.Extra
			mtx.Lock()
			respData = append(respData, *item)
			mtx.Unlock()
			return nil
		})
	}
	if err := errGrp.Wait(); err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "predict processing error, %v"}`, err)
		return
	}

	resp := response{
		EntityID:  req.EntityID,
		Algorithm: string(alg),
		Data:      respData,
	}
	bytes, err := json.Marshal(resp)
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "failed to encode output json %v"}`, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(bytes)
}

func (h *handler) predictOne(
	ctx context.Context,
	req request,
	alg classifier.Algorithm,
	revision uint64,
	vec []float64,
) (*responseItem, error) {
	logger := logging.FromContext(ctx)
	key := cache.Key(req.EntityID, string(alg), req.K, revision, vec[0], vec[1])

	var cached classifier.Prediction
	hit, err := h.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warnf("prediction cache get: %v", err)
	}
	if hit {
		return &responseItem{Purchased: cached.Purchased, Probability: cached.Probability, Vec: vec}, nil
	}

	result, err := h.svc.Predict(ctx, req.EntityID, alg, req.K, vec[0], vec[1])
	if err != nil {
		return nil, fmt.Errorf("predict error: %v", err)
	}

	if err := h.cache.Set(ctx, key, result); err != nil {
		logger.Warnf("prediction cache set: %v", err)
	}

	return &responseItem{Purchased: result.Purchased, Probability: result.Probability, Vec: vec}, nil
}
