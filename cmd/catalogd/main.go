package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/grib-catalog-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/grib-catalog-service/internal/adapter/kafka"
	"github.com/couchcryptid/grib-catalog-service/internal/catalog"
	"github.com/couchcryptid/grib-catalog-service/internal/config"
	"github.com/couchcryptid/grib-catalog-service/internal/observability"
	"github.com/couchcryptid/grib-catalog-service/internal/pipeline"
	"golang.org/x/time/rate"
)

// staticReadiness reports ready as soon as the table is loaded. Used when the
// Kafka pipeline is disabled and the lookup API is the only surface.
type staticReadiness struct{}

func (staticReadiness) CheckReadiness(context.Context) error { return nil }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	table, err := loadTable(cfg)
	if err != nil {
		logger.Error("failed to load parameter table", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}
	metrics.CatalogRecords.Set(float64(table.Len()))
	logger.Info("parameter table loaded", "records", table.Len())

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wire the annotation pipeline (feature-flagged via KAFKA_ENABLED /
	// KAFKA_BROKERS). Without it the service is a plain lookup API.
	var ready httpadapter.ReadinessChecker = staticReadiness{}
	var closers []func() error

	if cfg.KafkaEnabled {
		reader := kafkaadapter.NewReader(cfg, logger)
		writer := kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(table, logger)

		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = p
		closers = append(closers, reader.Close, writer.Close)

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
		logger.Info("annotation pipeline enabled",
			"brokers", cfg.KafkaBrokers,
			"source_topic", cfg.KafkaSourceTopic,
			"sink_topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("annotation pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, table, limiter, ready, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// loadTable reads the table from CATALOG_PATH, falling back to the embedded copy.
func loadTable(cfg *config.Config) (*catalog.Table, error) {
	if cfg.CatalogPath != "" {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.Default()
}
