package httputil

import "fmt"

type HTTPClientConfig struct {
	BasicAuth   *BasicAuth `json:"basicAuth,omitempty" toml:"basic_auth"`
	BearerToken string     `json:"bearerToken,omitempty" toml:"bearer_token"`
}

func (c *HTTPClientConfig) Validate() error {
	if c.BasicAuth != nil && len(c.BearerToken) > 0 {
		return fmt.Errorf("at most one of basic_auth & bearer_token must be configured")
	}
	return nil
}

type BasicAuth struct {
	Username string `json:"username" toml:"username"`
	Password string `json:"password,omitempty" toml:"password"`
}
