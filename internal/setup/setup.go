// Package setup assembles the service environment from configuration
// providers. A config struct opts into a resource by implementing the
// matching provider interface.
package setup

import (
	"context"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/kelseyhightower/envconfig"

	"intent/internal/alert"
	"intent/internal/cache"
	"intent/internal/classifier"
	"intent/internal/database"
	"intent/internal/dispatcher"
	"intent/internal/logging"
	"intent/internal/scrape"
	"intent/internal/srvenv"
)

const (
	SvcModeScrape  string = "SCRAPE"
	SvcModeCollect string = "COLLECT"
)

type SvcModeConfigProvider interface {
	SvcMode() string
}

type DispatcherConfigProvider interface {
	DispatcherConfig() *dispatcher.Config
}

type NotifierConfigProvider interface {
	NotifyConfig() *alert.Config
}

type ScrapeConfigProvider interface {
	ScrapeConfig() *scrape.Config
}

type ClassifierConfigProvider interface {
	ClassifierConfig() *classifier.Config
}

type DatabaseConfigProvider interface {
	DatabaseConfig() *database.Config
}

type CacheConfigProvider interface {
	CacheConfig() *cache.Config
}

func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	var serverEnvOpts []srvenv.Option
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}
	logger.Debugf("effective configuration:\n%s", spew.Sdump(config))

	var (
		db                *database.DB
		engineProvideFn   dispatcher.ProvideEngineFn
		notifierProvideFn alert.ProvideFn
	)
	if dbConfigProvider, ok := config.(DatabaseConfigProvider); ok {
		logger.Info("Configuring database")
		dbFromEnv, err := database.NewFromEnv(ctx, dbConfigProvider.DatabaseConfig())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %v", err)
		}
		db = dbFromEnv
		serverEnvOpts = append(serverEnvOpts, srvenv.WithDatabase(db))
	}

	if cacheConfigProvider, ok := config.(CacheConfigProvider); ok {
		logger.Info("Configuring prediction cache")
		predictionCache, err := cache.NewFromEnv(ctx, cacheConfigProvider.CacheConfig())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to cache: %v", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithCache(predictionCache))
	}

	if notifyConfigProvider, ok := config.(NotifierConfigProvider); ok {
		logger.Info("Configuring notifier")
		provideFn, err := ProvideNotifierFor(notifyConfigProvider, db)
		if err != nil {
			return nil, fmt.Errorf("unable create notifier provide function: %v", err)
		}
		notifierProvideFn = provideFn
		serverEnvOpts = append(serverEnvOpts, srvenv.WithNotifier(notifierProvideFn))
	}

	if classifierConfigProvider, ok := config.(ClassifierConfigProvider); ok {
		logger.Info("Configuring engine factory")
		provideFn, err := ProvideEngineFor(classifierConfigProvider.ClassifierConfig())
		if err != nil {
			return nil, fmt.Errorf("unable create engine provide function: %v", err)
		}
		engineProvideFn = provideFn
		serverEnvOpts = append(serverEnvOpts, srvenv.WithEngine(engineProvideFn))
	}

	if dispatcherConfigProvider, ok := config.(DispatcherConfigProvider); ok {
		logger.Info("Configuring dispatcher")
		provideFn, err := ProvideDispatcherFor(dispatcherConfigProvider, engineProvideFn, db)
		if err != nil {
			return nil, fmt.Errorf("unable create dispatcher provide function: %v", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithDispatcher(provideFn))
	}

	if svcModeConfigProvider, ok := config.(SvcModeConfigProvider); ok && svcModeConfigProvider.SvcMode() == SvcModeScrape {
		if scrapeConfigProvider, ok := config.(ScrapeConfigProvider); ok {
			logger.Info("Configuring scrapper")
			provideFn, err := ProvideScrapperFor(scrapeConfigProvider)
			if err != nil {
				return nil, fmt.Errorf("unable create scrapper provide function: %v", err)
			}
			serverEnvOpts = append(serverEnvOpts, srvenv.WithScrapper(provideFn))
		}
	}
	return srvenv.New(serverEnvOpts...), nil
}

func ProvideScrapperFor(provider ScrapeConfigProvider) (scrape.ProvideFn, error) {
	cfg := provider.ScrapeConfig()
	return func(disp dispatcher.Manager, shutdownCh chan<- error) (scrape.Manager, error) {
		return scrape.New(
			disp,
			shutdownCh,
			scrape.WithInterval(cfg.Interval),
			scrape.WithRequestTimeout(cfg.RequestTimeout),
			scrape.WithMaxConcurrentRequest(cfg.MaxConcurrentRequest),
			scrape.WithTargetUrls(cfg.Targets),
		)
	}, nil
}

func ProvideNotifierFor(provider NotifierConfigProvider, db *database.DB) (alert.ProvideFn, error) {
	cfg := provider.NotifyConfig()
	if !cfg.AllowAlerts {
		return func(shutdownCh chan<- error) (alert.Manager, error) {
			return alert.NewDisabled(shutdownCh), nil
		}, nil
	}
	targets := cfg.Targets
	if cfg.TargetsFile != "" {
		fileTargets, err := alert.LoadTargetsFile(cfg.TargetsFile)
		if err != nil {
			return nil, fmt.Errorf("unable load alert targets: %w", err)
		}
		targets = append(targets, fileTargets...)
	}
	return func(shutdownCh chan<- error) (alert.Manager, error) {
		return alert.New(
			db,
			shutdownCh,
			alert.WithMaxConcurrentRequest(cfg.MaxConcurrentRequest),
			alert.WithAlertInterval(cfg.Interval),
			alert.WithTargets(targets),
		)
	}, nil
}

func ProvideDispatcherFor(
	provider DispatcherConfigProvider,
	provideEngineFn dispatcher.ProvideEngineFn,
	db *database.DB,
) (dispatcher.ProvideFn, error) {
	cfg := provider.DispatcherConfig()
	return func(notifier alert.Manager, shutdownCh chan<- error) (dispatcher.Manager, error) {
		return dispatcher.New(
			db,
			provideEngineFn,
			notifier,
			shutdownCh,
			dispatcher.WithRebuildDBTime(cfg.RebuildDBTime),
			dispatcher.WithMaxItemsStored(cfg.MaxItemsStored),
			dispatcher.WithMaxStorageTime(cfg.MaxStorageTime),
			dispatcher.WithDBFlushSize(cfg.DBFlushSize),
			dispatcher.WithDBFlushTime(cfg.DBFlushTime),
			dispatcher.WithEngineCacheSize(cfg.EngineCacheSize),
			dispatcher.WithAccuracyFloor(cfg.AccuracyFloor),
		)
	}, nil
}

// ProvideEngineFor returns a factory that builds engines with the configured
// neighbor count and distance function.
func ProvideEngineFor(cfg *classifier.Config) (dispatcher.ProvideEngineFn, error) {
	distFunc, err := classifier.DistanceFuncFor(cfg.MetricFuncType)
	if err != nil {
		return nil, fmt.Errorf("unable provide distance function: %v", err)
	}
	return func(records []classifier.Record) (*classifier.Engine, error) {
		engine, err := classifier.New(
			records,
			classifier.WithKNum(cfg.KNum),
			classifier.WithDistance(distFunc),
		)
		if err != nil {
			return nil, fmt.Errorf("unable create engine instance: %w", err)
		}
		return engine, nil
	}, nil
}
