package predict

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"intent/internal/classifier"
)

type fakeService struct {
	calls int32
}

func (f *fakeService) Predict(
	_ context.Context,
	entityID string,
	alg classifier.Algorithm,
	k int,
	f1, f2 float64,
) (*classifier.Prediction, error) {
	atomic.AddInt32(&f.calls, 1)
	return &classifier.Prediction{Purchased: f1 >= 40, Probability: 0.8}, nil
}

func (f *fakeService) Revision(entityID string) uint64 {
	return 1
}

func newTestHandler(t *testing.T) (http.Handler, *fakeService) {
	t.Helper()
	svc := &fakeService{}
	h, err := NewHandler(&Config{RequestTimeout: 5 * time.Second, MaxDataItemsLen: 3}, svc, nil)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return h, svc
}

func TestHandlerRejects(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		contentType  string
		body         string
		expectedCode int
	}{
		{
			name:         "wrong_method",
			method:       http.MethodGet,
			contentType:  "application/json",
			body:         `{}`,
			expectedCode: http.StatusMethodNotAllowed,
		},
		{
			name:         "unknown_algorithm",
			method:       http.MethodPost,
			contentType:  "application/json",
			body:         `{"entity": "e", "algorithm": "decision-tree", "data": []}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "too_many_items",
			method:       http.MethodPost,
			contentType:  "application/json",
			body:         `{"entity": "e", "algorithm": "knn", "data": [{"vector": [1,2]}, {"vector": [1,2]}, {"vector": [1,2]}, {"vector": [1,2]}]}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "wrong_vector_dims",
			method:       http.MethodPost,
			contentType:  "application/json",
			body:         `{"entity": "e", "algorithm": "knn", "data": [{"vector": [1]}]}`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			req := httptest.NewRequest(test.method, "/predict", strings.NewReader(test.body))
			req.Header.Set("content-type", test.contentType)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != test.expectedCode {
				t.Errorf("status got: %v, expected: %v", w.Code, test.expectedCode)
			}
		})
	}
}

func TestHandlerPredicts(t *testing.T) {
	h, svc := newTestHandler(t)
	body := `{"entity": "entity-a", "algorithm": "logistic-regression", "data": [
		{"vector": [55, 120000], "extra": "a"},
		{"vector": [22, 18000], "extra": "b"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set("content-type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status got: %v, expected: %v, body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if got := atomic.LoadInt32(&svc.calls); got != 2 {
		t.Errorf("service calls got: %v, expected: %v", got, 2)
	}

	var resp response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.EntityID != "entity-a" || resp.Algorithm != "logistic-regression" {
		t.Errorf("response envelope got: %+v", resp)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("response items got: %v, expected: %v", len(resp.Data), 2)
	}
	for _, item := range resp.Data {
		expected := item.Vec[0] >= 40
		if item.Purchased != expected {
			t.Errorf("item %v purchased got: %v, expected: %v", item.Vec, item.Purchased, expected)
		}
	}
}
