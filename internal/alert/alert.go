// Package alert delivers accuracy-floor notifications to configured HTTP
// targets. Undelivered alerts survive a restart in persistent storage.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	alertDb "intent/internal/alert/database"
	"intent/internal/alert/model"
	"intent/internal/database"
	"intent/internal/httputil"
	"intent/internal/logging"
	"intent/pkg/rworker"
)

type ProvideFn = func(chan<- error) (Manager, error)

const UserAgent = "INTENT/0.1"

const defaultRequestTimeout = 10 * time.Second

type Options struct {
	maxConcurrentRequest int
	requestTimeout       time.Duration
	alertInterval        time.Duration
	targets              Targets
}

type Option func(*manager)

func WithMaxConcurrentRequest(n int) Option {
	return func(o *manager) {
		o.opts.maxConcurrentRequest = n
	}
}

func WithAlertInterval(t time.Duration) Option {
	return func(o *manager) {
		o.opts.alertInterval = t
	}
}

func WithRequestTimeout(t time.Duration) Option {
	return func(o *manager) {
		o.opts.requestTimeout = t
	}
}

func WithTargets(m Targets) Option {
	return func(o *manager) {
		o.opts.targets = m
	}
}

type payload struct {
	Algorithm   string    `json:"algorithm"`
	Accuracy    float64   `json:"accuracy"`
	DatasetSize int       `json:"datasetSize"`
	CreatedAt   time.Time `json:"createdAt"`
}

type request struct {
	EntityID string    `json:"entityId"`
	Alerts   []payload `json:"alerts"`
}

func New(db *database.DB, shutdownCh chan<- error, opts ...Option) (*manager, error) {
	m := &manager{
		alertDb:    alertDb.New(db),
		shutdownCh: shutdownCh,
		clients:    map[string]*http.Client{},
		alerts:     map[string][]model.Alert{},
	}
	for _, f := range opts {
		f(m)
	}
	if m.opts.requestTimeout <= 0 {
		m.opts.requestTimeout = defaultRequestTimeout
	}
	for _, target := range m.opts.targets {
		if _, ok := m.clients[target.EntityID]; !ok {
			client, err := httputil.NewClientFromConfig(target.HTTPConfig, true)
			if err != nil {
				return nil, fmt.Errorf("unable create client for entity %s: %v", target.EntityID, err)
			}
			m.clients[target.EntityID] = client
		}
	}
	return m, nil
}

type Notifier interface {
	Notify(alerts ...model.Alert)
}

// NewDisabled returns a manager that drops every alert. Used when delivery
// is switched off through configuration; it keeps the shutdown-channel
// accounting of a real manager.
func NewDisabled(shutdownCh chan<- error) Manager {
	return &disabled{shutdownCh: shutdownCh}
}

type disabled struct {
	shutdownCh chan<- error
	cancel     func()
}

func (d *disabled) Notify(_ ...model.Alert) {}

func (d *disabled) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	go func() {
		<-ctx.Done()
		d.shutdownCh <- nil
	}()
	return nil
}

func (d *disabled) Stop() {
	d.cancel()
}

type Manager interface {
	Notifier
	Run(context.Context) error
	Stop()
}

type manager struct {
	mtx        sync.RWMutex
	opts       Options
	alertDb    *alertDb.DB
	shutdownCh chan<- error
	clients    map[string]*http.Client
	alerts     map[string][]model.Alert
	cancel     func()
}

func (m *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	go m.notifier(ctx)
	if err := m.initialize(ctx); err != nil {
		return fmt.Errorf("can not start alert manager: %v", err)
	}
	return nil
}

func (m *manager) Stop() {
	m.cancel()
}

func (m *manager) Notify(alerts ...model.Alert) {
	m.mtx.Lock()
	for i := range alerts {
		if _, ok := m.alerts[alerts[i].EntityID]; !ok {
			m.alerts[alerts[i].EntityID] = []model.Alert{}
		}
		m.alerts[alerts[i].EntityID] = append(m.alerts[alerts[i].EntityID], alerts[i])
	}
	m.mtx.Unlock()
}

// initialize re-queues alerts that were persisted on a previous shutdown.
func (m *manager) initialize(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	alerts, err := m.alertDb.FindAll(ctx, nil)
	if err != nil {
		logger.Errorf("Error with fetching data from db, %v", err)
	}
	for i := range alerts {
		m.Notify(alerts[i])
		if err := m.alertDb.Delete(context.Background(), alerts[i]); err != nil {
			return fmt.Errorf("unable delete alert on initialize: %v", err)
		}
	}
	return nil
}

// shutdown persists the alerts that were not delivered yet.
func (m *manager) shutdown() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	for _, alerts := range m.alerts {
		for i := range alerts {
			if err := m.alertDb.Store(context.Background(), alerts[i]); err != nil {
				return fmt.Errorf("alert shutdown: unable store alert: %v", err)
			}
		}
	}
	return nil
}

type makeRequestFn func() request

func (m *manager) notifier(ctx context.Context) {
	logger := logging.FromContext(ctx)
	errCh := make(chan error, 1)
	limit := rworker.NewLimiter(m.opts.maxConcurrentRequest)
	defer close(errCh)
	defer close(limit)
	go func() {
		for err := range errCh {
			logger.Errorf("alert error: %v", err)
		}
	}()
	defer func() {
		m.shutdownCh <- m.shutdown()
	}()
	wg := sync.WaitGroup{}
	ticker := time.NewTicker(m.opts.alertInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
		OuterLoop:
			for _, target := range m.opts.targets {
				target := target
				m.mtx.RLock()
				alerts := make([]model.Alert, len(m.alerts[target.EntityID]))
				copy(alerts, m.alerts[target.EntityID])
				m.mtx.RUnlock()
				if len(alerts) == 0 {
					continue OuterLoop
				}
				rworker.Job(&wg, limit, func() error {
					if err := m.do(context.Background(), target, func() request {
						payloads := make([]payload, len(alerts))
						for i := range alerts {
							payloads[i] = payload{
								Algorithm:   alerts[i].Algorithm,
								Accuracy:    alerts[i].Accuracy,
								DatasetSize: alerts[i].DatasetSize,
								CreatedAt:   alerts[i].CreatedAt,
							}
						}
						return request{
							EntityID: target.EntityID,
							Alerts:   payloads,
						}
					}); err != nil {
						return fmt.Errorf("alert do request error: %v", err)
					}
					m.mtx.Lock()
					m.alerts[target.EntityID] = m.alerts[target.EntityID][len(alerts):]
					m.mtx.Unlock()
					return nil
				}, errCh)
			}
			wg.Wait()
		case <-ctx.Done():
			return
		}
	}
}

func (m *manager) do(ctx context.Context, target Target, fn makeRequestFn) error {
	ctx, cancel := context.WithTimeout(ctx, m.opts.requestTimeout)
	defer cancel()
	body, err := json.Marshal(fn())
	if err != nil {
		return fmt.Errorf("unable encode json data: %w", err)
	}
	link, err := url.Parse(target.URL)
	if err != nil {
		return fmt.Errorf("url parsing error: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, link.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Add("User-Agent", UserAgent)
	client, ok := m.clients[target.EntityID]
	if !ok {
		return fmt.Errorf("client for entityID %s not defined", target.EntityID)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request error: %w", err)
	}

	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("response was not 200 OK: %s", resp.Status)
	}
	return nil
}
