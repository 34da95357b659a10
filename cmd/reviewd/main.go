package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/docreview/internal/async"
	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/llm/openai"
	"github.com/joseph-ayodele/docreview/internal/loader"
	"github.com/joseph-ayodele/docreview/internal/pipeline"
	"github.com/joseph-ayodele/docreview/internal/repository"
	"github.com/joseph-ayodele/docreview/internal/server"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open review store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var opts []pipeline.Option
	if cfg.LLM.APIKey != "" {
		client, err := openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
			RatePerSec:  cfg.LLM.Rate,
		}, logger)
		if err != nil {
			logger.Error("failed to create LLM client", "error", err)
			os.Exit(1)
		}
		opts = append(opts, pipeline.WithProse(client))
	} else {
		logger.Info("OPENAI_API_KEY not set, prose disabled")
	}
	session := pipeline.NewSession(loader.NewFromConfig(cfg, logger), logger, opts...)

	queue := async.NewReviewQueue(session, store, logger,
		async.WithWorkers(cfg.Server.Workers),
		async.WithQueueSize(cfg.Server.QueueSize),
		async.WithProcessTimeout(cfg.Server.JobTimeout),
	)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer, healthServer := server.New(server.NewReviewService(session, queue, store, logger), logger)

	logger.Info("reviewd listening", "addr", cfg.Server.GRPCAddr, "store", cfg.Store.Driver, "workers", cfg.Server.Workers)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	stopped := make(chan struct{})
	go func() { grpcServer.GracefulStop(); close(stopped) }()
	select {
	case <-stopped:
	case <-time.After(15 * time.Second):
		logger.Warn("graceful stop timed out, forcing")
		grpcServer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
}
