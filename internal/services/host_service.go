package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/publish"
	"github.com/rs/zerolog"
)

// Publisher is the outbound side driven by the host service.
type Publisher interface {
	Publish(ctx context.Context, record gps.Record) publish.Report
	Close() error
}

// HostService periodically takes a reading from the location source and
// publishes it to the configured backends.
type HostService struct {
	// Configuration fields
	interval time.Duration

	// Dependencies
	source    gps.Source
	publisher Publisher
	logger    zerolog.Logger

	// Internal state management
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewHostService creates a new HostService with the provided source,
// publisher and interval.
func NewHostService(interval time.Duration, source gps.Source, publisher Publisher, logger zerolog.Logger) *HostService {
	return &HostService{
		interval:  interval,
		source:    source,
		publisher: publisher,
		logger:    logger,
		running:   false,
	}
}

// Start launches the publish loop. The first reading goes out immediately,
// subsequent ones follow every interval.
func (h *HostService) Start() error {
	if h.running {
		h.logger.Warn().Msg("HostService is already running")
		return errors.New("host service is already running")
	}

	h.ctx, h.cancel = context.WithCancel(context.Background())
	h.running = true

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		h.publishReading()

		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				h.publishReading()
			case <-h.ctx.Done():
				h.logger.Info().Msg("HostService is stopping")
				return
			}
		}
	}()

	h.logger.Info().Dur("interval", h.interval).Msg("HostService started")
	return nil
}

// publishReading takes a single reading and fans it out. A failing source
// skips the tick; the loop always carries on.
func (h *HostService) publishReading() {
	record, err := h.source.NextReading()
	if err != nil {
		h.logger.Warn().Err(err).Msg("Skipping publish, no reading available")
		return
	}

	report := h.publisher.Publish(h.ctx, record)
	if !report.Delivered() {
		h.logger.Error().Err(report.Err()).Msg("No backend delivered the record")
		return
	}

	h.logger.Info().
		Float64("latitude", record.Latitude).
		Float64("longitude", record.Longitude).
		Str("source", record.Source).
		Msg("Location record published")
}

// Stop signals the publish loop to terminate, waits for it to drain and
// closes the source and publisher.
func (h *HostService) Stop() error {
	if !h.running {
		h.logger.Warn().Msg("HostService is not running")
		return errors.New("host service is not running")
	}

	h.cancel()
	h.wg.Wait()

	var errs []error
	if err := h.source.Close(); err != nil {
		h.logger.Error().Err(err).Msg("Failed to close location source")
		errs = append(errs, err)
	}
	if err := h.publisher.Close(); err != nil {
		h.logger.Error().Err(err).Msg("Failed to close publisher")
		errs = append(errs, err)
	}

	h.running = false
	h.logger.Info().Msg("HostService stopped")
	return errors.Join(errs...)
}
