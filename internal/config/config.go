// Package intent holds the top-level service configuration.
package intent

import (
	"intent/internal/accuracy"
	"intent/internal/alert"
	"intent/internal/cache"
	"intent/internal/classifier"
	"intent/internal/collect"
	"intent/internal/database"
	"intent/internal/dispatcher"
	"intent/internal/logging"
	"intent/internal/predict"
	"intent/internal/scrape"
	"intent/internal/setup"
)

var (
	_ setup.SvcModeConfigProvider    = (*Config)(nil)
	_ setup.DatabaseConfigProvider   = (*Config)(nil)
	_ setup.NotifierConfigProvider   = (*Config)(nil)
	_ setup.ScrapeConfigProvider     = (*Config)(nil)
	_ setup.ClassifierConfigProvider = (*Config)(nil)
	_ setup.DispatcherConfigProvider = (*Config)(nil)
	_ setup.CacheConfigProvider      = (*Config)(nil)
)

const (
	SvcModeTypeCollect = "COLLECT"
	SvcModeTypeScrape  = "SCRAPE"
)

type Config struct {
	SvcModeType string `envconfig:"INTENT_SVC_MODE" default:"COLLECT"`
	SrvAddr     string `envconfig:"INTENT_ADDR" default:":8787"`
	GRPCAddr    string `envconfig:"INTENT_GRPC_ADDR"`
	DebugAddr   string `envconfig:"INTENT_DEBUG_ADDR" default:"0.0.0.0:8080"`
	Logging     logging.Config
	Dispatcher  dispatcher.Config
	Collect     collect.Config
	Predict     predict.Config
	Accuracy    accuracy.Config
	Database    database.Config
	Cache       cache.Config
	Scrape      scrape.Config
	Classifier  classifier.Config
	Alert       alert.Config
}

func (c Config) SvcMode() string {
	return c.SvcModeType
}

func (c Config) DispatcherConfig() *dispatcher.Config {
	return &c.Dispatcher
}

func (c Config) NotifyConfig() *alert.Config {
	return &c.Alert
}

func (c Config) ScrapeConfig() *scrape.Config {
	return &c.Scrape
}

func (c Config) DatabaseConfig() *database.Config {
	return &c.Database
}

func (c Config) CacheConfig() *cache.Config {
	return &c.Cache
}

func (c Config) ClassifierConfig() *classifier.Config {
	return &c.Classifier
}
