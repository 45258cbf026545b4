// Package scrape pulls labeled feedback from configured endpoints and feeds
// it to the dispatcher as training samples.
package scrape

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"intent/internal/dispatcher"
	"intent/internal/geom"
	"intent/internal/logging"
	"intent/internal/sample/model"
	"intent/pkg/rworker"
)

type response struct {
	EntityID string `json:"entity"`
	Data     []struct {
		Vec       []float64   `json:"vector"`
		Label     int         `json:"label"`
		Extra     interface{} `json:"extra"`
		CreatedAt time.Time   `json:"createdAt"`
	} `json:"data"`
}

type Manager interface {
	Run(context.Context) error
	Stop()
}

type ProvideFn = func(dispatcher.Manager, chan<- error) (Manager, error)

const UserAgent = "INTENT/0.1"

type Options struct {
	maxConcurrentRequest  int
	requestTimeout        time.Duration
	tlsHandshakeTimeout   time.Duration
	responseHeaderTimeout time.Duration
	scrapeInterval        time.Duration
}

type Option func(*manager)

func WithMaxConcurrentRequest(n int) Option {
	return func(o *manager) {
		o.opts.maxConcurrentRequest = n
	}
}

func WithInterval(t time.Duration) Option {
	return func(o *manager) {
		o.opts.scrapeInterval = t
	}
}

func WithRequestTimeout(t time.Duration) Option {
	return func(o *manager) {
		o.opts.requestTimeout = t
	}
}

func WithTargetUrls(m Targets) Option {
	return func(o *manager) {
		o.targets = m
	}
}

func New(disp dispatcher.Manager, shutdownCh chan<- error, opts ...Option) (*manager, error) {
	if disp == nil {
		return nil, fmt.Errorf("dispatcher instance is not defined")
	}
	m := &manager{
		targets:    Targets{},
		shutdownCh: shutdownCh,
		dispatcher: disp,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.client = &http.Client{
		Transport: &http.Transport{
			TLSHandshakeTimeout:   m.opts.tlsHandshakeTimeout,
			ResponseHeaderTimeout: m.opts.responseHeaderTimeout,
		},
	}
	return m, nil
}

type manager struct {
	opts             Options
	targets          Targets
	dispatcher       dispatcher.Manager
	client           *http.Client
	shutdownCh       chan<- error
	cancelDispatcher func()
	cancel           func()
}

func (s *manager) Stop() {
	s.cancel()
}

func (s *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	c, cancel := context.WithCancel(context.Background())
	s.cancelDispatcher = cancel
	if err := s.dispatcher.Run(c); err != nil {
		return fmt.Errorf("dispatcher.Run: %w", err)
	}
	go func() {
		defer func() {
			s.shutdownCh <- nil
			s.cancelDispatcher()
		}()
		ticker := time.NewTicker(s.opts.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.scrapping(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (s *manager) scrape(url string) (response, error) {
	var response response
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return response, fmt.Errorf("creating request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Add("User-Agent", UserAgent)
	req.Header.Add("Accept-Encoding", "gzip")
	resp, err := s.client.Do(req)
	if err != nil {
		return response, fmt.Errorf("sending request error: %w", err)
	}

	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return response, fmt.Errorf("unable create gzip.NewReader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return response, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return response, fmt.Errorf("response was not 200 OK: %s", body)
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return response, fmt.Errorf("decoding response error: %w", err)
	}

	return response, nil
}

func (s *manager) scrapping(ctx context.Context) {
	wg := sync.WaitGroup{}
	logger := logging.FromContext(ctx)
	errCh := make(chan error, 1)
	limit := rworker.NewLimiter(s.opts.maxConcurrentRequest)
	go func() {
		for err := range errCh {
			logger.Errorf("scrape manager error: %v", err)
		}
	}()
OuterLoop:
	for _, link := range s.targets {
		urlData, err := url.Parse(link.URL)
		if err != nil {
			logger.Errorf("url parsing error: %v", err)
			continue OuterLoop
		}
		rworker.Job(&wg, limit, func() error {
			resp, err := s.scrape(urlData.String())
			if err != nil {
				return fmt.Errorf("scrape error: %w", err)
			}
			sort.SliceStable(resp.Data, func(i, j int) bool {
				return resp.Data[i].CreatedAt.Before(resp.Data[j].CreatedAt)
			})
			for _, dat := range resp.Data {
				if dat.Label != 0 && dat.Label != 1 {
					return fmt.Errorf("scraped label must be 0 or 1, got %d", dat.Label)
				}
				if err := s.dispatcher.Collect(
					model.NewSample(resp.EntityID, geom.NewPoint(dat.Vec), dat.Label, dat.CreatedAt, dat.Extra),
				); err != nil {
					return fmt.Errorf("send to collect error: %w", err)
				}
			}
			return nil
		}, errCh)
	}
	wg.Wait()
	close(errCh)
	close(limit)
}
