// Package rworker runs jobs on goroutines behind a shared concurrency limit.
package rworker

import "sync"

// Limiter bounds how many jobs run at once. A job holds a slot for its
// whole duration.
type Limiter chan struct{}

func NewLimiter(n int) Limiter {
	return make(Limiter, n)
}

// Job runs fn on its own goroutine once a limiter slot is free. A non-nil
// error is offered to errCh without blocking, so a full or unread channel
// drops the error rather than wedging the worker.
func Job(wg *sync.WaitGroup, limit Limiter, fn func() error, errCh chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		limit <- struct{}{}
		defer func() { <-limit }()

		if err := fn(); err != nil {
			select {
			case errCh <- err:
			default:
			}
		}
	}()
}
