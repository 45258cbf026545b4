package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"intent/internal/logging"
	"intent/internal/sample/model"
)

func newDBTxExecutor(opts dbTxExecutorOptions, shutdownCh chan<- error) *dbTxExecutor {
	return &dbTxExecutor{opts: opts, shutdownCh: shutdownCh}
}

// dbTxExecutorOptions Returns the structure with configuration options
type dbTxExecutorOptions struct {
	flushSize int
	flushTime time.Duration
	deps      pullDependencies
	// called with the entity IDs of every flushed batch
	onFlush func(entityIDs ...string)
}

// A structure that represents the database transaction execution service.
// Accumulates a queue of samples and inserts them in bulk into persistent storage.
type dbTxExecutor struct {
	mtx sync.RWMutex

	opts dbTxExecutorOptions
	// Buffer that accumulates samples for adding
	buf        []model.Sample
	shutdownCh chan<- error
}

// Urgently inserts all data from the buffer into persistent storage or returns an error
func (tx *dbTxExecutor) shutdown() error {
	tx.mtx.Lock()
	buf := tx.buf
	tx.buf = nil
	tx.mtx.Unlock()

	if err := tx.opts.deps.appendSamples(context.Background(), buf); err != nil {
		return fmt.Errorf("txExecutor: append many operation failed: %v", err)
	}
	tx.notifyFlushed(buf)
	return nil
}

// This is the main method for adding data. It adds data to the buffer.
// If the buffer is full, it calls the bulkAppend method
func (tx *dbTxExecutor) write(ctx context.Context, data model.Sample) {
	tx.mtx.Lock()
	if tx.buf == nil {
		tx.buf = []model.Sample{}
	}

	tx.buf = append(tx.buf, data)
	bufLen := len(tx.buf)
	tx.mtx.Unlock()

	if bufLen >= tx.opts.flushSize {
		go tx.bulkAppend(ctx)
	}
}

// Bulk adds data to persistent storage and clears the buffer
func (tx *dbTxExecutor) bulkAppend(ctx context.Context) {
	logger := logging.FromContext(ctx)

	tx.mtx.Lock()
	tmpBuf := make([]model.Sample, len(tx.buf))
	copy(tmpBuf, tx.buf)
	tx.buf = tx.buf[:0]
	tx.mtx.Unlock()

	if err := tx.opts.deps.appendSamples(context.Background(), tmpBuf); err != nil {
		logger.Errorf("txExecutor: append many operation failed: %v", err)
		return
	}
	tx.notifyFlushed(tmpBuf)
}

// notifyFlushed reports the distinct entity IDs of a flushed batch so stale
// engines can be invalidated.
func (tx *dbTxExecutor) notifyFlushed(batch []model.Sample) {
	if tx.opts.onFlush == nil || len(batch) == 0 {
		return
	}
	seen := map[string]struct{}{}
	ids := make([]string, 0, 1)
	for i := range batch {
		if _, ok := seen[batch[i].EntityID]; ok {
			continue
		}
		seen[batch[i].EntityID] = struct{}{}
		ids = append(ids, batch[i].EntityID)
	}
	tx.opts.onFlush(ids...)
}

// Every n seconds, data from the buffer must be inserted into the database
func (tx *dbTxExecutor) flusher(ctx context.Context) {
	defer func() {
		tx.shutdownCh <- tx.shutdown()
	}()
	ticker := time.NewTicker(tx.opts.flushTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			tx.bulkAppend(ctx)
		case <-ctx.Done():
			return
		}
	}
}
