package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/fetch"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
	"github.com/rs/zerolog"
)

// DisplaySink receives fetch outcomes for presentation. The CLI renders
// them to the console, tests capture them for inspection.
type DisplaySink interface {
	ShowRecord(record gps.Record)
	ShowWaiting()
	ShowError(err error)
}

// GuestService periodically fetches the latest location record from the
// host and routes the outcome to a display sink.
type GuestService struct {
	// Configuration fields
	interval time.Duration

	// Dependencies
	fetcher fetch.Fetcher
	sink    DisplaySink
	logger  zerolog.Logger

	// Internal state management
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewGuestService creates a new GuestService with the provided fetcher,
// sink and interval.
func NewGuestService(interval time.Duration, fetcher fetch.Fetcher, sink DisplaySink, logger zerolog.Logger) *GuestService {
	return &GuestService{
		interval: interval,
		fetcher:  fetcher,
		sink:     sink,
		logger:   logger,
		running:  false,
	}
}

// Start launches the fetch loop. The first fetch happens immediately,
// subsequent ones follow every interval.
func (g *GuestService) Start() error {
	if g.running {
		g.logger.Warn().Msg("GuestService is already running")
		return errors.New("guest service is already running")
	}

	g.ctx, g.cancel = context.WithCancel(context.Background())
	g.running = true

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		g.FetchOnce(g.ctx)

		ticker := time.NewTicker(g.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				g.FetchOnce(g.ctx)
			case <-g.ctx.Done():
				g.logger.Info().Msg("GuestService is stopping")
				return
			}
		}
	}()

	g.logger.Info().
		Str("backend", g.fetcher.Name()).
		Dur("interval", g.interval).
		Msg("GuestService started")
	return nil
}

// FetchOnce performs a single fetch attempt and routes the outcome to the
// sink. Missing data is routed as a waiting state, not an error.
func (g *GuestService) FetchOnce(ctx context.Context) error {
	record, err := g.fetcher.FetchLatest(ctx)
	switch {
	case err == nil:
		g.logger.Debug().
			Float64("latitude", record.Latitude).
			Float64("longitude", record.Longitude).
			Msg("Location record received")
		g.sink.ShowRecord(record)
	case errors.Is(err, fetch.ErrNoData):
		g.logger.Debug().Msg("No location data available yet")
		g.sink.ShowWaiting()
	default:
		g.logger.Error().Err(err).Msg("Location fetch failed")
		g.sink.ShowError(err)
	}
	return err
}

// Stop signals the fetch loop to terminate, waits for it to drain and
// closes the fetcher.
func (g *GuestService) Stop() error {
	if !g.running {
		g.logger.Warn().Msg("GuestService is not running")
		return errors.New("guest service is not running")
	}

	g.cancel()
	g.wg.Wait()

	if err := g.fetcher.Close(); err != nil {
		g.logger.Error().Err(err).Msg("Failed to close fetcher")
		return err
	}

	g.running = false
	g.logger.Info().Msg("GuestService stopped")
	return nil
}
