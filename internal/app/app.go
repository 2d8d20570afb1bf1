// Package app wires the resolution pipeline to its adapters from config.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rodferprod/classy-weather/internal/adapter/kafka"
	"github.com/rodferprod/classy-weather/internal/adapter/openmeteo"
	"github.com/rodferprod/classy-weather/internal/adapter/sqlite"
	"github.com/rodferprod/classy-weather/internal/config"
	"github.com/rodferprod/classy-weather/internal/domain"
	"github.com/rodferprod/classy-weather/internal/observability"
	"github.com/rodferprod/classy-weather/internal/pipeline"
	"github.com/rodferprod/classy-weather/internal/timezone"
)

// App holds the pipeline and the resources it owns.
type App struct {
	Pipeline *pipeline.Pipeline
	Store    *sqlite.Store

	writer *kafka.Writer
	logger *slog.Logger
}

// New opens the location store and builds the pipeline. Optional features
// (geocode cache, timezone lookup, Kafka publishing) follow cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*App, error) {
	store, err := sqlite.Open(ctx, cfg.StorePath, logger.With("component", "store"))
	if err != nil {
		return nil, fmt.Errorf("open location store: %w", err)
	}

	var geocoder domain.Geocoder = openmeteo.NewGeocodingClient(cfg.GeocodingURL, cfg.APITimeout, metrics, logger.With("component", "geocoding"))
	if cfg.GeocodeCacheSize > 0 {
		geocoder = openmeteo.NewCachedGeocoder(geocoder, cfg.GeocodeCacheSize, metrics)
		logger.Info("geocode cache enabled", "cache_size", cfg.GeocodeCacheSize)
	}
	forecaster := openmeteo.NewForecastClient(cfg.ForecastURL, cfg.APITimeout, metrics, logger.With("component", "forecast"))

	a := &App{Store: store, logger: logger}
	var opts []pipeline.Option

	if cfg.TimezoneLookup {
		tz, err := timezone.NewService()
		if err != nil {
			logger.Warn("timezone lookup disabled", "error", err)
		} else {
			opts = append(opts, pipeline.WithTimezoneFinder(tz))
		}
	}

	if cfg.PublishingEnabled() {
		a.writer = kafka.NewWriter(cfg, logger.With("component", "kafka"))
		opts = append(opts, pipeline.WithPublisher(a.writer))
		logger.Info("forecast publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("forecast publishing disabled")
	}

	a.Pipeline = pipeline.New(geocoder, forecaster, store, logger.With("component", "pipeline"), metrics, opts...)
	return a, nil
}

// Close waits for in-flight resolutions until ctx ends, then releases the
// writer and store.
func (a *App) Close(ctx context.Context) {
	if err := a.Pipeline.WaitContext(ctx); err != nil {
		a.logger.Warn("closing with resolutions still in flight", "error", err)
	}
	if a.writer != nil {
		if err := a.writer.Close(); err != nil {
			a.logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := a.Store.Close(); err != nil {
		a.logger.Error("location store close error", "error", err)
	}
}
