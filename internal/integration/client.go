// Package integration is a thin HTTP client for the service API, shared by
// the CLI and the integration tests.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type prefixRoundTripper struct {
	addr string
	rt   http.RoundTripper
}

func (p *prefixRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	u := r.URL
	if u.Scheme == "" {
		u.Scheme = "http"
	}
	if u.Host == "" {
		u.Host = p.addr
	}

	return p.rt.RoundTrip(r)
}

func NewClient(addr string) *Client {
	return &Client{client: &http.Client{Transport: &prefixRoundTripper{addr: addr, rt: http.DefaultTransport}}}
}

type Client struct {
	client *http.Client
}

func (c *Client) Collect(ctx context.Context, r CollectRequest) (*http.Response, error) {
	return c.post(ctx, "/collect", &r)
}

func (c *Client) Predict(ctx context.Context, r PredictRequest) (*PredictResponse, error) {
	resp, err := c.post(ctx, "/predict", &r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predict response was not 200 OK: %s", resp.Status)
	}

	var out PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	return &out, nil
}

func (c *Client) Accuracy(ctx context.Context, r AccuracyRequest) (*AccuracyResponse, error) {
	resp, err := c.post(ctx, "/accuracy", &r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("accuracy response was not 200 OK: %s", resp.Status)
	}

	var out AccuracyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode accuracy response: %w", err)
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, fmt.Errorf("create new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("unable marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error with sending request: %w", err)
	}
	return resp, nil
}
