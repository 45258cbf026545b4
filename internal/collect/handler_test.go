package collect

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"intent/internal/sample/model"
)

type fakeCollector struct {
	mtx     sync.Mutex
	samples []model.Sample
}

func (f *fakeCollector) Collect(in ...model.Sample) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.samples = append(f.samples, in...)
	return nil
}

func (f *fakeCollector) len() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return len(f.samples)
}

func newTestHandler(t *testing.T) (http.Handler, *fakeCollector) {
	t.Helper()
	collector := &fakeCollector{}
	h, err := NewHandler(&Config{RequestTimeout: 5 * time.Second}, collector)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return h, collector
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
			name:         "wrong_content_type",
			method:       http.MethodPost,
			contentType:  "text/plain",
			body:         `{}`,
			expectedCode: http.StatusUnsupportedMediaType,
		},
		{
			name:         "malformed_json",
			method:       http.MethodPost,
			contentType:  "application/json",
			body:         `{not json`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing_entity",
			method:       http.MethodPost,
			contentType:  "application/json",
			body:         `{"entity": "", "data": []}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "wrong_vector_dims",
			method:       http.MethodPost,
			contentType:  "application/json",
			body:         `{"entity": "e", "data": [{"vector": [1, 2, 3], "label": 1}]}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "invalid_label",
			method:       http.MethodPost,
			contentType:  "application/json",
			body:         `{"entity": "e", "data": [{"vector": [30, 50000], "label": 2}]}`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			req := httptest.NewRequest(test.method, "/collect", strings.NewReader(test.body))
			req.Header.Set("content-type", test.contentType)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != test.expectedCode {
				t.Errorf("status got: %v, expected: %v", w.Code, test.expectedCode)
			}
		})
	}
}

func TestHandlerCollects(t *testing.T) {
	h, collector := newTestHandler(t)
	body := `{"entity": "entity-a", "data": [
		{"vector": [30, 50000], "label": 1, "createdAt": "2024-03-01T10:01:00Z"},
		{"vector": [22, 18000], "label": 0, "createdAt": "2024-03-01T10:00:00Z"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/collect", strings.NewReader(body))
	req.Header.Set("content-type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status got: %v, expected: %v", w.Code, http.StatusOK)
	}

	// samples are forwarded asynchronously
	deadline := time.After(2 * time.Second)
	for collector.len() < 2 {
		select {
		case <-deadline:
			t.Fatalf("collected samples got: %v, expected: %v", collector.len(), 2)
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	collector.mtx.Lock()
	defer collector.mtx.Unlock()
	if !collector.samples[0].CreatedAt.Before(collector.samples[1].CreatedAt) {
		t.Errorf("samples not forwarded in creation-time order")
	}
	if collector.samples[0].Label != 0 || collector.samples[1].Label != 1 {
		t.Errorf("labels got: %v %v, expected 0 1", collector.samples[0].Label, collector.samples[1].Label)
	}
}
