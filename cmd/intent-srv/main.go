package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"intent/internal/accuracy"
	"intent/internal/buildinfo"
	"intent/internal/collect"
	intent "intent/internal/config"
	"intent/internal/logging"
	"intent/internal/metrics"
	"intent/internal/predict"
	"intent/internal/server"
	"intent/internal/setup"
	"intent/internal/shutdown"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(
		os.Stdout,
		"%s: %s, %s\n",
		buildinfo.Info.Name(),
		buildinfo.Info.Time(),
		buildinfo.Info.Tag(),
	)

	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	if err := run(ctx, done); err != nil {
		logger.Fatal(err)
	}

	defer done()
}

func run(ctx context.Context, cancel func()) error {
	var (
		shutdownCh    chan error
		shutdownCount = 2
	)
	config := intent.Config{}
	env, err := setup.Setup(ctx, &config)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer env.Close(context.Background())

	logger := logging.NewLogger(&config.Logging)
	defer func() { _ = logger.Sync() }()
	ctx = logging.WithLogger(ctx, logger)

	if err := metrics.RegisterViews(); err != nil {
		return fmt.Errorf("metrics.RegisterViews: %w", err)
	}
	exporter, err := metrics.NewExporter("intent")
	if err != nil {
		return fmt.Errorf("metrics.NewExporter: %w", err)
	}

	if config.SvcModeType == intent.SvcModeTypeScrape {
		shutdownCount++
	}

	shutdownCh = make(chan error, shutdownCount)
	notifier, err := env.ProvideNotifier()(shutdownCh)
	if err != nil {
		return fmt.Errorf("notifier provider function error: %w", err)
	}
	disp, err := env.ProvideDispatcher()(notifier, shutdownCh)
	if err != nil {
		return fmt.Errorf("dispatcher provider function error: %w", err)
	}

	if config.SvcModeType == intent.SvcModeTypeScrape {
		scrapper, err := env.ProvideScrapper()(disp, shutdownCh)
		if err != nil {
			return fmt.Errorf("scrapperCaller: %w", err)
		}
		if err := scrapper.Run(ctx); err != nil {
			return fmt.Errorf("scrapperRun: %w", err)
		}
	} else if err := disp.Run(ctx); err != nil {
		return fmt.Errorf("dispatcher.Run: %w", err)
	}

	srv, err := server.New(config.SrvAddr)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	mux := http.NewServeMux()

	predictHandler, err := predict.NewHandler(&config.Predict, disp, env.Cache())
	if err != nil {
		return fmt.Errorf("predict.NewHandler: %w", err)
	}

	accuracyHandler, err := accuracy.NewHandler(&config.Accuracy, disp)
	if err != nil {
		return fmt.Errorf("accuracy.NewHandler: %w", err)
	}

	mux.Handle("/predict", predictHandler)
	mux.Handle("/accuracy", accuracyHandler)
	mux.Handle("/health", server.HandleHealth(ctx))
	mux.Handle("/metrics", exporter)

	if config.SvcModeType == intent.SvcModeTypeCollect {
		collectHandler, err := collect.NewHandler(&config.Collect, disp)
		if err != nil {
			return fmt.Errorf("collect.NewHandler: %w", err)
		}
		mux.Handle("/collect", collectHandler)
	}

	go func() {
		if err := srv.ServeHTTPHandler(ctx, mux); err != nil {
			cancel()
		}
	}()

	if config.GRPCAddr != "" {
		grpcListener, err := server.New(config.GRPCAddr)
		if err != nil {
			return fmt.Errorf("server.New grpc: %w", err)
		}
		grpcServer := grpc.NewServer()
		healthSrv := health.NewServer()
		healthpb.RegisterHealthServer(grpcServer, healthSrv)
		healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		go func() {
			if err := grpcListener.ServeGRPC(ctx, grpcServer); err != nil {
				cancel()
			}
		}()
	}

	go func() {
		if err := http.ListenAndServe(config.DebugAddr, nil); err != nil {
			cancel()
		}
	}()

	return <-shutdownCh
}
