package srvenv

import (
	"context"

	"intent/internal/alert"
	"intent/internal/cache"
	"intent/internal/database"
	"intent/internal/dispatcher"
	"intent/internal/scrape"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

// SrvEnv carries the shared resources and provider functions the binaries
// assemble the service from.
type SrvEnv struct {
	database   *database.DB
	cache      *cache.Cache
	engine     dispatcher.ProvideEngineFn
	dispatcher dispatcher.ProvideFn
	notifier   alert.ProvideFn
	scrapper   scrape.ProvideFn
}

func (s *SrvEnv) ProvideScrapper() scrape.ProvideFn {
	return s.scrapper
}

func (s *SrvEnv) ProvideNotifier() alert.ProvideFn {
	return s.notifier
}

func (s *SrvEnv) ProvideDispatcher() dispatcher.ProvideFn {
	return s.dispatcher
}

func (s *SrvEnv) ProvideEngine() dispatcher.ProvideEngineFn {
	return s.engine
}

func (s *SrvEnv) Database() *database.DB {
	return s.database
}

func (s *SrvEnv) Cache() *cache.Cache {
	return s.cache
}

func WithScrapper(fn scrape.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.scrapper = fn
		return s
	}
}

func WithNotifier(fn alert.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.notifier = fn
		return s
	}
}

func WithDispatcher(fn dispatcher.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.dispatcher = fn
		return s
	}
}

func WithEngine(fn dispatcher.ProvideEngineFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.engine = fn
		return s
	}
}

func WithDatabase(db *database.DB) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.database = db
		return s
	}
}

func WithCache(c *cache.Cache) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.cache = c
		return s
	}
}

func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.cache != nil {
		_ = s.cache.Close()
	}

	if s.database != nil {
		return s.database.Close(ctx)
	}
	return nil
}
