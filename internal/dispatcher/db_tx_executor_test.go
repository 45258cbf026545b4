package dispatcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"intent/internal/geom"
	"intent/internal/sample/model"
)

func testSamples(n int) []model.Sample {
	samples := make([]model.Sample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, model.NewSample("test-data", geom.Point{30, 50000}, 1, time.Now(), "test"))
	}
	return samples
}

func TestDbTxExecutorWrite(t *testing.T) {
	tests := []struct {
		name        string
		items       []model.Sample
		flushSize   int
		expectedLen int
	}{
		{
			name:        "single_write_stays_buffered",
			items:       testSamples(1),
			flushSize:   10,
			expectedLen: 1,
		},
		{
			name:        "writes_below_flush_size_stay_buffered",
			items:       testSamples(3),
			flushSize:   10,
			expectedLen: 3,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			txExecutor := newDBTxExecutor(dbTxExecutorOptions{
				flushSize: test.flushSize,
				deps: pullDependencies{
					appendSamples: func(ctx context.Context, samples []model.Sample) error {
						return nil
					},
				},
			}, make(chan error, 1))
			for _, item := range test.items {
				txExecutor.write(context.Background(), item)
			}

			if len(txExecutor.buf) != test.expectedLen {
				t.Errorf(
					"calling the write method, the length of the buffered data got: %v, expected: %v",
					len(txExecutor.buf),
					test.expectedLen,
				)
			}
		})
	}
}

func TestDbTxExecutorBulkAppend(t *testing.T) {
	tests := []struct {
		name           string
		buf            []model.Sample
		expectedLen    int
		expectedBufLen int
	}{
		{
			name:           "flushes_whole_buffer",
			buf:            testSamples(5),
			expectedLen:    5,
			expectedBufLen: 0,
		},
		{
			name:           "empty_buffer_is_noop",
			buf:            []model.Sample{},
			expectedLen:    0,
			expectedBufLen: 0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var (
				mtx    sync.Mutex
				length int
			)
			txExecutor := newDBTxExecutor(dbTxExecutorOptions{
				deps: pullDependencies{
					appendSamples: func(ctx context.Context, samples []model.Sample) error {
						mtx.Lock()
						length = len(samples)
						mtx.Unlock()
						return nil
					},
				},
			}, make(chan error, 1))
			txExecutor.buf = test.buf
			txExecutor.bulkAppend(context.Background())

			if length != test.expectedLen {
				t.Errorf(
					"calling the bulkAppend method, the length of the inserted data got: %v, expected: %v",
					length,
					test.expectedLen,
				)
			}

			if len(txExecutor.buf) != test.expectedBufLen {
				t.Errorf(
					"calling the bulkAppend method, the length of buffer got: %v, expected: %v",
					len(txExecutor.buf),
					test.expectedBufLen,
				)
			}
		})
	}
}

func TestDbTxExecutorFlushNotifiesEntities(t *testing.T) {
	var flushed []string
	txExecutor := newDBTxExecutor(dbTxExecutorOptions{
		deps: pullDependencies{
			appendSamples: func(ctx context.Context, samples []model.Sample) error {
				return nil
			},
		},
		onFlush: func(entityIDs ...string) {
			flushed = append(flushed, entityIDs...)
		},
	}, make(chan error, 1))

	now := time.Now()
	txExecutor.buf = []model.Sample{
		model.NewSample("entity-a", geom.Point{30, 50000}, 1, now, nil),
		model.NewSample("entity-b", geom.Point{25, 30000}, 0, now, nil),
		model.NewSample("entity-a", geom.Point{40, 80000}, 1, now, nil),
	}
	txExecutor.bulkAppend(context.Background())

	if len(flushed) != 2 {
		t.Fatalf("onFlush entity count got: %v, expected: %v", len(flushed), 2)
	}
	if flushed[0] != "entity-a" || flushed[1] != "entity-b" {
		t.Errorf("onFlush entities got: %v, expected: [entity-a entity-b]", flushed)
	}
}

func TestDbTxExecutorShutdown(t *testing.T) {
	tests := []struct {
		name           string
		buf            []model.Sample
		expectedLen    int
		expectedBufLen int
	}{
		{
			name:           "flushes_on_shutdown",
			buf:            testSamples(5),
			expectedLen:    5,
			expectedBufLen: 0,
		},
		{
			name:           "empty_buffer_shutdown",
			buf:            []model.Sample{},
			expectedLen:    0,
			expectedBufLen: 0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			length := 0
			txExecutor := newDBTxExecutor(dbTxExecutorOptions{
				deps: pullDependencies{
					appendSamples: func(ctx context.Context, samples []model.Sample) error {
						length = len(samples)
						return nil
					},
				},
			}, make(chan error, 1))
			txExecutor.buf = test.buf
			if err := txExecutor.shutdown(); err != nil {
				t.Fatalf("calling the shutdown method, err got: %v, expected: nil", err)
			}

			if length != test.expectedLen {
				t.Errorf(
					"calling the shutdown method, the length of the inserted data got: %v, expected: %v",
					length,
					test.expectedLen,
				)
			}

			if len(txExecutor.buf) != test.expectedBufLen {
				t.Errorf(
					"calling the shutdown method, the length of buffer got: %v, expected: %v",
					len(txExecutor.buf),
					test.expectedBufLen,
				)
			}
		})
	}
}

func TestDbTxExecutorFlusher(t *testing.T) {
	var (
		mtx    sync.Mutex
		length int
	)
	shutdownCh := make(chan error, 1)
	txExecutor := newDBTxExecutor(dbTxExecutorOptions{
		flushTime: 100 * time.Millisecond,
		deps: pullDependencies{
			appendSamples: func(ctx context.Context, samples []model.Sample) error {
				mtx.Lock()
				if length == 0 {
					length = len(samples)
				}
				mtx.Unlock()
				return nil
			},
		},
	}, shutdownCh)
	txExecutor.buf = testSamples(5)

	ctx, cancel := context.WithCancel(context.Background())
	go txExecutor.flusher(ctx)

	time.Sleep(300 * time.Millisecond)
	cancel()

	if err := <-shutdownCh; err != nil {
		t.Fatalf("flusher shutdown err got: %v, expected: nil", err)
	}

	mtx.Lock()
	defer mtx.Unlock()
	if length != 5 {
		t.Errorf("calling the flusher method, the length of the inserted data got: %v, expected: %v", length, 5)
	}
}
