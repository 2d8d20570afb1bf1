package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/rodferprod/classy-weather/internal/domain"
	"github.com/rodferprod/classy-weather/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/rodferprod/classy-weather/internal/pipeline")

// MinQueryLength is the shortest trimmed query that triggers a lookup.
const MinQueryLength = 2

// AutoTimezone asks the forecast provider to pick the timezone itself.
const AutoTimezone = "auto"

// Resolution outcomes, used as metric labels.
const (
	outcomeSuccess       = "success"
	outcomeNotFound      = "not_found"
	outcomeGeocodeError  = "geocode_error"
	outcomeForecastError = "forecast_error"
	outcomeShortQuery    = "short_query"
	outcomeStale         = "stale"
)

// Pipeline turns location text into display state: geocode, then forecast.
// Each change starts a new attempt on its own goroutine; only the most
// recently issued attempt may mutate the state.
type Pipeline struct {
	geocoder   domain.Geocoder
	forecaster domain.ForecastProvider
	store      domain.LocationStore
	timezones  domain.TimezoneFinder
	publisher  domain.Publisher
	logger     *slog.Logger
	metrics    *observability.Metrics

	// changeMu serializes location changes so the persisted text, the
	// current location and the attempt sequence advance in the same order.
	changeMu sync.Mutex

	mu    sync.Mutex
	state domain.ResolutionState
	seq   uint64

	inflight sync.WaitGroup
	ready    atomic.Bool
}

// Option configures optional collaborators.
type Option func(*Pipeline)

// WithTimezoneFinder fills in timezones the geocoder leaves empty.
func WithTimezoneFinder(f domain.TimezoneFinder) Option {
	return func(p *Pipeline) { p.timezones = f }
}

// WithPublisher emits a ForecastEvent every time a forecast is applied.
func WithPublisher(pub domain.Publisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// New creates a Pipeline with the given ports and observability.
func New(g domain.Geocoder, f domain.ForecastProvider, s domain.LocationStore, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		geocoder:   g,
		forecaster: f,
		store:      s,
		logger:     logger,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once the stored location has been restored.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not restored the stored location yet")
	}
	return nil
}

// Restore loads the persisted location and resolves it if it differs from the
// current one. The pipeline is ready afterwards even if the store failed.
func (p *Pipeline) Restore(ctx context.Context) error {
	defer p.ready.Store(true)

	text, err := p.store.Load(ctx)
	if err != nil {
		p.metrics.StoreErrors.Inc()
		p.logger.Warn("load stored location failed", "error", err)
		return fmt.Errorf("restore location: %w", err)
	}
	p.logger.Info("restored location", "location", text)
	p.change(ctx, text, false)
	return nil
}

// SetLocation records new location text, persists it and starts a resolution
// attempt. Text equal to the current location is ignored. It returns without
// waiting for network calls. Concurrent calls are applied one at a time, and
// the last one applied is both persisted and resolved.
func (p *Pipeline) SetLocation(ctx context.Context, text string) {
	p.change(ctx, text, true)
}

// State returns a snapshot of the display state.
func (p *Pipeline) State() domain.ResolutionState {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.state
	s.Forecast = p.state.Forecast.Clone()
	return s
}

// Wait blocks until every started attempt has finished.
func (p *Pipeline) Wait() {
	p.inflight.Wait()
}

// WaitContext is Wait bounded by ctx. Attempts still running when ctx ends
// keep running in the background.
func (p *Pipeline) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipeline) change(ctx context.Context, text string, persist bool) {
	p.changeMu.Lock()
	defer p.changeMu.Unlock()

	p.mu.Lock()
	if text == p.state.Location {
		p.mu.Unlock()
		return
	}
	p.state.Location = text
	p.mu.Unlock()

	if persist {
		if err := p.store.Save(ctx, text); err != nil {
			p.metrics.StoreErrors.Inc()
			p.logger.Warn("save location failed", "location", text, "error", err)
		}
	}

	p.start(ctx, text)
}

// start issues a new attempt. Short queries clear the forecast synchronously
// and still advance the sequence so older attempts become stale.
func (p *Pipeline) start(ctx context.Context, text string) {
	p.mu.Lock()
	p.seq++
	seq := p.seq

	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinQueryLength {
		p.state.Forecast = domain.DailyForecast{}
		p.setLoading(false)
		p.state.UpdatedAt = domain.Now()
		p.mu.Unlock()

		p.metrics.Resolutions.WithLabelValues(outcomeShortQuery).Inc()
		p.logger.Debug("query too short, forecast cleared", "location", text)
		return
	}

	p.setLoading(true)
	p.mu.Unlock()

	// The attempt outlives the caller (an HTTP request, typically).
	actx := context.WithoutCancel(ctx)
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		p.run(actx, seq, text)
	}()
}

func (p *Pipeline) run(ctx context.Context, seq uint64, text string) {
	ctx, span := tracer.Start(ctx, "pipeline.resolve", trace.WithAttributes(
		attribute.String("location.query", text),
		attribute.Int64("pipeline.attempt", int64(seq)),
	))
	defer span.End()

	start := time.Now()
	outcome := p.resolve(ctx, seq, text)
	p.metrics.ResolutionTime.Observe(time.Since(start).Seconds())
	p.metrics.Resolutions.WithLabelValues(outcome).Inc()

	span.SetAttributes(attribute.String("pipeline.outcome", outcome))
	switch outcome {
	case outcomeNotFound, outcomeGeocodeError, outcomeForecastError:
		span.SetStatus(codes.Error, outcome)
	}
}

// resolve runs one attempt and returns its outcome.
func (p *Pipeline) resolve(ctx context.Context, seq uint64, text string) string {
	logger := p.logger.With("location", text, "attempt", seq)

	geo, err := p.geocoder.Resolve(ctx, text)
	if err != nil {
		logger.Warn("geocoding failed", "error", err)
		if errors.Is(err, domain.ErrNotFound) {
			return p.finish(seq, outcomeNotFound)
		}
		return p.finish(seq, outcomeGeocodeError)
	}

	display, err := domain.DisplayLocation(geo)
	if err != nil {
		logger.Warn("geocoding returned unusable country code", "country_code", geo.CountryCode, "error", err)
		return p.finish(seq, outcomeGeocodeError)
	}

	if !p.apply(seq, func(s *domain.ResolutionState) { s.DisplayLocation = display }) {
		return outcomeStale
	}

	forecast, err := p.forecaster.FetchDaily(ctx, geo.Latitude, geo.Longitude, p.timezoneFor(geo))
	if err != nil {
		logger.Warn("forecast fetch failed", "display_location", display, "error", err)
		return p.finish(seq, outcomeForecastError)
	}

	applied := p.apply(seq, func(s *domain.ResolutionState) {
		s.Forecast = forecast.Clone()
		p.setLoading(false)
	})
	if !applied {
		return outcomeStale
	}
	logger.Info("forecast updated", "display_location", display, "days", forecast.Len())

	p.publish(ctx, domain.NewForecastEvent(text, display, geo, forecast))
	return outcomeSuccess
}

// finish clears the loading flag after a failed step. The previous forecast
// is left in place.
func (p *Pipeline) finish(seq uint64, outcome string) string {
	if !p.apply(seq, func(*domain.ResolutionState) { p.setLoading(false) }) {
		return outcomeStale
	}
	return outcome
}

// apply runs fn under the state lock if seq is still the latest attempt.
func (p *Pipeline) apply(seq uint64, fn func(*domain.ResolutionState)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.seq {
		p.logger.Debug("discarding stale result", "attempt", seq, "latest", p.seq)
		return false
	}
	fn(&p.state)
	p.state.UpdatedAt = domain.Now()
	return true
}

// setLoading updates the flag and its gauge together. Callers hold p.mu.
func (p *Pipeline) setLoading(loading bool) {
	p.state.IsLoading = loading
	if loading {
		p.metrics.Loading.Set(1)
	} else {
		p.metrics.Loading.Set(0)
	}
}

func (p *Pipeline) timezoneFor(geo domain.GeoResult) string {
	if geo.Timezone != "" {
		return geo.Timezone
	}
	if p.timezones == nil {
		return AutoTimezone
	}
	tz, err := p.timezones.GetTimezone(geo.Latitude, geo.Longitude)
	if err != nil {
		p.logger.Debug("timezone lookup failed, using auto", "error", err)
		return AutoTimezone
	}
	return tz
}

func (p *Pipeline) publish(ctx context.Context, event domain.ForecastEvent) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.metrics.PublishFailures.Inc()
		p.logger.Warn("publish forecast event failed", "id", event.ID, "error", err)
	}
}
