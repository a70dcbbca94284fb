package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voxpaper/paper-narrator/internal/bootstrap"
	"github.com/voxpaper/paper-narrator/internal/config"
	"github.com/voxpaper/paper-narrator/internal/observability/logging"
	"github.com/voxpaper/paper-narrator/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conversionMetrics := metrics.NewConversionMetrics("worker")

	app, err := bootstrap.New(ctx, cfg, conversionMetrics)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsMux(conversionMetrics),
	}
	go func() {
		log.Printf("worker metrics listening on :%s", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("worker metrics server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	conversionTimeout := time.Duration(cfg.ConversionTimeoutSeconds) * time.Second

	log.Printf("worker subscribed to %s", cfg.NATSSubject)
	err = app.Queue.SubscribeConversionRequested(ctx, func(handlerCtx context.Context, jobID string) error {
		convertCtx, cancel := context.WithTimeout(handlerCtx, conversionTimeout)
		defer cancel()

		if job, err := app.Repo.GetByID(convertCtx, jobID); err == nil {
			conversionMetrics.ObserveQueueLag(time.Since(job.CreatedAt))
		}

		conversionMetrics.StartConversion()
		start := time.Now()
		convErr := app.ConvertUC.ConvertByID(convertCtx, jobID)
		conversionMetrics.FinishConversion(time.Since(start), convErr)
		return convErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

func metricsMux(conversionMetrics *metrics.ConversionMetrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", conversionMetrics.Handler())
	return mux
}
