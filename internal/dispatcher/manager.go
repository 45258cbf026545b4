package dispatcher

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"intent/internal/alert"
	alertModel "intent/internal/alert/model"
	"intent/internal/classifier"
	"intent/internal/database"
	"intent/internal/logging"
	"intent/internal/metrics"
	sampleDb "intent/internal/sample/database"
	"intent/internal/sample/model"
	"intent/pkg/iqueue"
)

// Contract for returning the Manager instance
type ProvideFn func(alert.Manager, chan<- error) (Manager, error)

// ProvideEngineFn builds a classification engine from a training set. The
// dispatcher calls it every time an entity's engine has to be rebuilt.
type ProvideEngineFn func(records []classifier.Record) (*classifier.Engine, error)

// The interface defines the behavior of the Manager instance with all available methods.
// This interface defines the behavior of the background service.
type Manager interface {
	CollectPredictor
	// Start method of the service
	Run(context.Context) error
	// Method for stopping the service
	Stop()
}

// Collector defines the behavior of the service for accepting training samples
type Collector interface {
	// The method accepts data from outside and writes it to the queue
	Collect(in ...model.Sample) error
}

// The interface defines the behavior of the service only for predictions
type Predictor interface {
	// Predict classifies the feature pair with the entity's engine
	Predict(ctx context.Context, entityID string, alg classifier.Algorithm, k int, f1, f2 float64) (*classifier.Prediction, error)
}

// Scorer reports the training-set accuracy of an entity's engine
type Scorer interface {
	Accuracy(ctx context.Context, entityID string, alg classifier.Algorithm) (float64, int, error)
}

// Aggregation interface for Collector, Predictor and Scorer interfaces
type CollectPredictor interface {
	Collector
	Predictor
	Scorer
	// Revision grows every time the entity's training set changes
	Revision(entityID string) uint64
}

// Abstractions for getting dependencies
type (
	// function for getting samples based on the entity id
	fetchSamplesByEntityFn func(string, sampleDb.FilterFn) ([]model.Sample, error)
	// function for deleting multiple samples
	deleteSamplesFn func(context.Context, []model.Sample) error
	// function to add sets of samples
	appendSamplesFn func(context.Context, []model.Sample) error
	// function for getting all entity IDs
	fetchKeysFn func() ([]string, error)
	// number of samples by entity id
	countByEntityFn func(string) (int, error)
)

// General structure for aggregation of dependency pulling functions
type pullDependencies struct {
	fetchSamplesByEntity fetchSamplesByEntityFn
	deleteSamples        deleteSamplesFn
	appendSamples        appendSamplesFn
	fetchKeys            fetchKeysFn
	countByEntity        countByEntityFn
}

type Options struct {
	maxItemsStored  int
	maxStorageTime  time.Duration
	dbFlushTime     time.Duration
	dbFlushSize     int
	rebuildDBTime   time.Duration
	engineCacheSize int
	accuracyFloor   float64
	deps            pullDependencies
}

type Option func(*manager)

func WithDBFlushTime(t time.Duration) Option {
	return func(o *manager) {
		o.opts.dbFlushTime = t
	}
}

func WithDBFlushSize(n int) Option {
	return func(o *manager) {
		o.opts.dbFlushSize = n
	}
}

func WithRebuildDBTime(t time.Duration) Option {
	return func(o *manager) {
		o.opts.rebuildDBTime = t
	}
}

func WithMaxItemsStored(n int) Option {
	return func(o *manager) {
		o.opts.maxItemsStored = n
	}
}

func WithMaxStorageTime(t time.Duration) Option {
	return func(o *manager) {
		o.opts.maxStorageTime = t
	}
}

func WithEngineCacheSize(n int) Option {
	return func(o *manager) {
		o.opts.engineCacheSize = n
	}
}

func WithAccuracyFloor(f float64) Option {
	return func(o *manager) {
		o.opts.accuracyFloor = f
	}
}

const defaultEngineCacheSize = 128

// New return manager
func New(
	db *database.DB,
	provideEngineFn ProvideEngineFn,
	notifier alert.Manager,
	shutdownCh chan<- error,
	opts ...Option,
) (*manager, error) {
	if notifier == nil {
		return nil, fmt.Errorf("notifier instance is not created")
	}

	if provideEngineFn == nil {
		return nil, fmt.Errorf("engine factory is not created")
	}

	d := &manager{
		sampleDB:        sampleDb.New(db),
		collectCh:       make(chan model.Sample, 1),
		shutDownCh:      shutdownCh,
		engineProvideFn: provideEngineFn,
		queue:           map[string]*iqueue.Queue[model.Sample]{},
		revisions:       map[string]uint64{},
		notifier:        notifier,
	}

	for _, f := range opts {
		f(d)
	}

	if d.opts.engineCacheSize <= 0 {
		d.opts.engineCacheSize = defaultEngineCacheSize
	}

	engines, err := lru.New[string, *classifier.Engine](d.opts.engineCacheSize)
	if err != nil {
		return nil, fmt.Errorf("unable create engine cache: %w", err)
	}
	d.engines = engines

	// structure containing functions for getting and adding samples
	d.opts.deps = pullDependencies{
		fetchSamplesByEntity: d.sampleDB.FindByEntity,
		deleteSamples:        d.sampleDB.DeleteMany,
		appendSamples:        d.sampleDB.AppendMany,
		fetchKeys:            d.sampleDB.Keys,
		countByEntity:        d.sampleDB.CountByEntity,
	}

	// Creating a new instance of newDBScheduler.
	d.dbScheduler = newDBScheduler(dbSchedulerConfig{
		deps:           d.opts.deps,
		maxItemsStored: d.opts.maxItemsStored,
		maxStorageTime: d.opts.maxStorageTime,
		rebuildDBTime:  d.opts.rebuildDBTime,
		onPrune:        d.invalidate,
	})

	// Creates a new instance of dbTxExecutor
	d.dbTxExecutor = newDBTxExecutor(
		dbTxExecutorOptions{
			deps:      d.opts.deps,
			flushTime: d.opts.dbFlushTime,
			flushSize: d.opts.dbFlushSize,
			onFlush:   d.invalidate,
		},
		shutdownCh,
	)

	return d, nil
}

// The main structure of the service. Owns the sample queues, the engine cache
// and the background storage maintenance.
type manager struct {
	mtx sync.RWMutex

	// Manager options
	opts Options
	// Main sample storage
	sampleDB *sampleDb.DB
	// The notification manager
	notifier alert.Manager
	// The transaction manager in the store
	dbTxExecutor *dbTxExecutor
	// Managing data in storage
	dbScheduler *dbScheduler

	// Queue for new data to be processed
	queue map[string]*iqueue.Queue[model.Sample]
	// New data channel for processing
	collectCh chan model.Sample
	// Channel to shutdown the application
	shutDownCh chan<- error

	closed bool
	// The factory returns an engine built from a training set
	engineProvideFn ProvideEngineFn
	// Built engines. An entry is dropped whenever the entity's samples change.
	engines *lru.Cache[string, *classifier.Engine]
	// Grows on every training-set change, lets callers key external caches
	revisions map[string]uint64

	// cancellation
	cancelNotifier func()
	cancel         func()
}

// The Run method starts the main data collection and maintenance functions
func (d *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	c, cancel := context.WithCancel(context.Background())
	d.cancelNotifier = cancel

	go d.collector(ctx)
	go d.dbTxExecutor.flusher(ctx)
	go d.dbScheduler.schedule(ctx)

	// Warming up engines from storage
	if err := d.bulkLoad(ctx); err != nil {
		return fmt.Errorf("can not start dispatcher manager: %w", err)
	}
	// Launching the notification service
	if err := d.notifier.Run(c); err != nil {
		return fmt.Errorf("alert.Run: %w", err)
	}

	return nil
}

// Stop the manager
func (d *manager) Stop() {
	d.cancel()
}

// Predict classifies the feature pair using the entity's engine, building the
// engine from storage when it is not cached.
func (d *manager) Predict(
	ctx context.Context,
	entityID string,
	alg classifier.Algorithm,
	k int,
	f1, f2 float64,
) (*classifier.Prediction, error) {
	d.mtx.RLock()
	if d.closed {
		d.mtx.RUnlock()
		return nil, fmt.Errorf("error to predict, shutting down")
	}
	d.mtx.RUnlock()

	engine, err := d.engine(ctx, entityID)
	if err != nil {
		return nil, err
	}

	result, err := engine.Predict(alg, f1, f2, k)
	if err != nil {
		return nil, err
	}
	metrics.RecordPrediction(ctx, entityID, string(alg))

	return result, nil
}

// Accuracy reports the training-set accuracy of the entity's engine along
// with the size of the training set it was built from.
func (d *manager) Accuracy(ctx context.Context, entityID string, alg classifier.Algorithm) (float64, int, error) {
	engine, err := d.engine(ctx, entityID)
	if err != nil {
		return 0, 0, err
	}

	accuracy, err := engine.Accuracy(alg)
	if err != nil {
		return 0, 0, err
	}

	return accuracy, engine.Len(), nil
}

// Revision returns the entity's training-set revision.
func (d *manager) Revision(entityID string) uint64 {
	d.mtx.RLock()
	defer d.mtx.RUnlock()

	return d.revisions[entityID]
}

// Collect adds data to the feed for saving to the queue
func (d *manager) Collect(data ...model.Sample) error {
	d.mtx.RLock()
	if d.closed {
		d.mtx.RUnlock()
		return fmt.Errorf("error send to collect, shutting down")
	}
	for i := range data {
		d.collectCh <- data[i]
	}
	d.mtx.RUnlock()
	return nil
}

// engine returns the cached engine for the entity or rebuilds it from storage.
// Samples come back from storage in collection order, so two rebuilds over the
// same data produce identical engines.
func (d *manager) engine(ctx context.Context, entityID string) (*classifier.Engine, error) {
	if engine, ok := d.engines.Get(entityID); ok {
		return engine, nil
	}

	began := time.Now()
	samples, err := d.opts.deps.fetchSamplesByEntity(entityID, nil)
	if err != nil {
		return nil, fmt.Errorf("unable fetch samples for entity %s: %w", entityID, err)
	}

	records := make([]classifier.Record, len(samples))
	for i := range samples {
		records[i] = samples[i].Record()
	}

	engine, err := d.engineProvideFn(records)
	if err != nil {
		return nil, fmt.Errorf("unable build engine for entity %s: %w", entityID, err)
	}

	d.engines.Add(entityID, engine)
	metrics.RecordRebuild(ctx, entityID, float64(time.Since(began).Milliseconds()))

	d.checkAccuracyFloor(ctx, entityID, engine)

	return engine, nil
}

// checkAccuracyFloor notifies the alert manager when a rebuilt engine scores
// below the configured accuracy floor.
func (d *manager) checkAccuracyFloor(ctx context.Context, entityID string, engine *classifier.Engine) {
	if d.opts.accuracyFloor <= 0 {
		return
	}
	logger := logging.FromContext(ctx)
	for _, alg := range []classifier.Algorithm{classifier.AlgorithmLogisticRegression, classifier.AlgorithmKNN} {
		accuracy, err := engine.Accuracy(alg)
		if err != nil {
			logger.Errorf("unable compute accuracy for entity %s: %v", entityID, err)
			continue
		}
		if accuracy < d.opts.accuracyFloor {
			d.alert(alertModel.NewAlert(entityID, string(alg), accuracy, engine.Len()))
		}
	}
}

// invalidate drops cached engines and bumps revisions for the entities whose
// training sets changed.
func (d *manager) invalidate(entityIDs ...string) {
	d.mtx.Lock()
	for _, id := range entityIDs {
		d.revisions[id]++
	}
	d.mtx.Unlock()
	for _, id := range entityIDs {
		d.engines.Remove(id)
	}
}

// bulkLoad builds an engine for every entity that already has samples stored.
func (d *manager) bulkLoad(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	keys, err := d.opts.deps.fetchKeys()
	if err != nil {
		return fmt.Errorf("error fetching entity keys: %w", err)
	}

	for _, key := range keys {
		if _, err := d.engine(ctx, key); err != nil {
			// an entity can legitimately have an empty training set after pruning
			logger.Warnf("skip warming engine for entity %s: %v", key, err)
		}
	}

	return nil
}

func (d *manager) process(ctx context.Context, sample model.Sample) error {
	d.dbTxExecutor.write(ctx, sample)
	metrics.RecordCollected(ctx, sample.EntityID, 1)
	return nil
}

func (d *manager) alert(in ...alertModel.Alert) {
	d.mtx.RLock()
	if !d.closed {
		d.mtx.RUnlock()
		d.notifier.Notify(in...)
		return
	}
	d.mtx.RUnlock()
}

func (d *manager) shutdown(ctx context.Context, q *iqueue.Queue[model.Sample]) error {
	for {
		front := q.Queue().Front()
		if front == nil {
			if !d.recvShutdown() {
				return fmt.Errorf("dispatcher shutdown: closed num receivers not equal created")
			}
			d.cancelNotifier()
			break
		}

		if err := d.process(ctx, front.Value.(model.Sample)); err != nil {
			return fmt.Errorf("dispatcher shutdown: unable processed data: %w", err)
		}

		q.Queue().Remove(front)
	}
	return nil
}

func (d *manager) recvShutdown() bool {
	finishedNum, queuesNum := 0, len(d.queue)
	for _, q := range d.queue {
		if q.Queue().Len() == 0 {
			finishedNum += 1
		}
	}

	return finishedNum == queuesNum
}

func (d *manager) receive(ctx context.Context, q *iqueue.Queue[model.Sample]) {
	logger := logging.FromContext(ctx)
	defer func() {
		d.shutDownCh <- d.shutdown(ctx, q)
	}()

	for {
		select {
		case recv := <-q.Receive():
			if err := d.process(ctx, recv); err != nil {
				logger.Errorf("unable processed data: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

const workerMul = 2

func (d *manager) worker(ctx context.Context, queue *iqueue.Queue[model.Sample], num int) {
	for i := 0; i < num; i++ {
		go d.receive(ctx, queue)
	}
}

func (d *manager) collector(ctx context.Context) {
	defer close(d.collectCh)
	for {
		select {
		case in := <-d.collectCh:
			q, ok := d.queue[in.EntityID]
			if !ok {
				queue := iqueue.New[model.Sample]()
				go queue.Loop()
				d.worker(ctx, queue, runtime.NumCPU()*workerMul)
				d.queue[in.EntityID] = queue
				q = queue
			}
			q.Send(in)
		case <-ctx.Done():
			d.mtx.Lock()
			d.closed = true
			d.mtx.Unlock()
			return
		}
	}
}
