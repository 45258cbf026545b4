package httputil

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// NewClientFromConfig returns an http.Client whose transport applies the
// configured authentication to every request.
func NewClientFromConfig(cfg HTTPClientConfig, disableKeepAlives bool) (*http.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rt := newRoundTripperFromConfig(cfg, disableKeepAlives)
	return &http.Client{Transport: rt}, nil
}

func newRoundTripperFromConfig(cfg HTTPClientConfig, disableKeepAlives bool) http.RoundTripper {
	var rt http.RoundTripper = &http.Transport{
		MaxIdleConns:          20000,
		MaxIdleConnsPerHost:   1000,
		DisableKeepAlives:     disableKeepAlives,
		DisableCompression:    true,
		IdleConnTimeout:       5 * time.Minute,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}

	if len(cfg.BearerToken) > 0 {
		rt = &bearerAuthRoundTripper{cfg.BearerToken, rt}
	}

	if cfg.BasicAuth != nil {
		rt = &basicAuthRoundTripper{cfg.BasicAuth.Username, cfg.BasicAuth.Password, rt}
	}

	return rt
}

type bearerAuthRoundTripper struct {
	bearerToken string
	rt          http.RoundTripper
}

func (rt *bearerAuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(req.Header.Get("Authorization")) == 0 {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", rt.bearerToken))
	}
	return rt.rt.RoundTrip(req)
}

type basicAuthRoundTripper struct {
	username string
	password string
	rt       http.RoundTripper
}

func (rt *basicAuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(req.Header.Get("Authorization")) != 0 {
		return rt.rt.RoundTrip(req)
	}
	req.SetBasicAuth(rt.username, strings.TrimSpace(rt.password))
	return rt.rt.RoundTrip(req)
}
