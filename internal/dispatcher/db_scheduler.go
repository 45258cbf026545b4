package dispatcher

import (
	"context"
	"fmt"
	"sort"
	"time"

	"intent/internal/logging"
	"intent/internal/sample/model"
)

// Scheduler options
type dbSchedulerConfig struct {
	maxItemsStored int
	maxStorageTime time.Duration
	rebuildDBTime  time.Duration
	deps           pullDependencies
	// called with the entity IDs whose samples were pruned
	onPrune func(entityIDs ...string)
}

func newDBScheduler(config dbSchedulerConfig) *dbScheduler {
	return &dbScheduler{opts: config}
}

// The scheduler is responsible for deleting old samples from the DB.
// It can maintain the required amount of data in the DB or delete old data
// depending on the configuration.
type dbScheduler struct {
	opts dbSchedulerConfig
}

// processOutdatedSamples retrieves the entity's samples older than the storage
// window and performs bulk deletion.
func (s *dbScheduler) processOutdatedSamples(entityID string) (int, error) {
	samples, err := s.opts.deps.fetchSamplesByEntity(entityID, func(sample model.Sample) bool {
		return time.Since(sample.CreatedAt) > s.opts.maxStorageTime
	})
	if err != nil {
		return 0, fmt.Errorf("unable find samples by entity %s: %v", entityID, err)
	}

	if len(samples) == 0 {
		return 0, nil
	}

	if err := s.opts.deps.deleteSamples(context.Background(), samples); err != nil {
		return 0, fmt.Errorf("unable delete outdated samples entity %s: %v", entityID, err)
	}
	return len(samples), nil
}

// processOverSizeSamples retrieves all samples for the specified entity,
// sorts by date added, and deletes the oldest ones.
func (s *dbScheduler) processOverSizeSamples(entityID string) (int, error) {
	samples, err := s.opts.deps.fetchSamplesByEntity(entityID, nil)
	if err != nil {
		return 0, fmt.Errorf("unable find samples by entity %s: %v", entityID, err)
	}

	if len(samples) <= s.opts.maxItemsStored {
		return 0, nil
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].CreatedAt.UnixNano() < samples[j].CreatedAt.UnixNano()
	})

	// Deleting a slice from the first n sorted samples
	pruned := samples[:len(samples)-s.opts.maxItemsStored]
	if err := s.opts.deps.deleteSamples(context.Background(), pruned); err != nil {
		return 0, fmt.Errorf("unable delete oversize samples entity %s: %v", entityID, err)
	}
	return len(pruned), nil
}

// rebuildOutdated gets all entity keys and prunes outdated samples for each.
func (s *dbScheduler) rebuildOutdated() error {
	keys, err := s.opts.deps.fetchKeys()
	if err != nil {
		return fmt.Errorf("unable to fetch sample keys: %v", err)
	}
	for i := range keys {
		n, err := s.processOutdatedSamples(keys[i])
		if err != nil {
			return fmt.Errorf("unable process samples: %v", err)
		}
		if n > 0 && s.opts.onPrune != nil {
			s.opts.onPrune(keys[i])
		}
	}
	return nil
}

// rebuildSize gets all entity keys and checks the number of stored samples
// for each, pruning the oldest above the configured maximum.
func (s *dbScheduler) rebuildSize() error {
	keys, err := s.opts.deps.fetchKeys()
	if err != nil {
		return fmt.Errorf("unable fetch keys: %v", err)
	}
	for i := range keys {
		length, err := s.opts.deps.countByEntity(keys[i])
		if err != nil {
			return fmt.Errorf("unable count by entity %s: %v", keys[i], err)
		}
		if length > s.opts.maxItemsStored {
			n, err := s.processOverSizeSamples(keys[i])
			if err != nil {
				return fmt.Errorf("unable process samples: %v", err)
			}
			if n > 0 && s.opts.onPrune != nil {
				s.opts.onPrune(keys[i])
			}
		}
	}

	return nil
}

// Scheduler for running data cleanup functions in the DB
func (s *dbScheduler) schedule(ctx context.Context) {
	logger := logging.FromContext(ctx)
	ticker := time.NewTicker(s.opts.rebuildDBTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if s.opts.maxItemsStored > 0 {
				if err := s.rebuildSize(); err != nil {
					logger.Errorf("unable db rebuild size: %v", err)
				}
			}
			if s.opts.maxStorageTime > 0 {
				if err := s.rebuildOutdated(); err != nil {
					logger.Errorf("unable db rebuild outdated: %v", err)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
