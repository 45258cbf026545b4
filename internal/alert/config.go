package alert

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"intent/internal/httputil"
)

type Config struct {
	AllowAlerts          bool          `envconfig:"INTENT_ALLOW_ALERTS" default:"true"`
	Targets              Targets       `envconfig:"INTENT_ALERT_TARGETS"`
	TargetsFile          string        `envconfig:"INTENT_ALERT_TARGETS_FILE"`
	Interval             time.Duration `envconfig:"INTENT_ALERT_INTERVAL" default:"5s"`
	MaxConcurrentRequest int           `envconfig:"INTENT_ALERT_MAX_CONCURRENT_REQUEST" default:"64"`
}

type Targets []Target

// Decode implements envconfig.Decoder, parsing a JSON array of targets.
func (ts *Targets) Decode(value string) error {
	targets := []Target{}
	if err := json.Unmarshal([]byte(value), &targets); err != nil {
		return err
	}
	*ts = targets
	return nil
}

type Target struct {
	URL        string                    `json:"url" toml:"url"`
	EntityID   string                    `json:"entityId" toml:"entity_id"`
	HTTPConfig httputil.HTTPClientConfig `json:"httpConfig" toml:"http_config"`
}

type targetsFile struct {
	Targets []Target `toml:"target"`
}

// LoadTargetsFile reads alert targets from a TOML file. File targets are
// appended after any targets set through the environment.
func LoadTargetsFile(path string) (Targets, error) {
	var f targetsFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode targets file %s: %w", path, err)
	}
	return f.Targets, nil
}
