package command

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elvismircan/vbox-host-guest-location-sharing/internal/constants"
	"github.com/elvismircan/vbox-host-guest-location-sharing/internal/services"
	"github.com/elvismircan/vbox-host-guest-location-sharing/internal/utils"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/fetch"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/propstore"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	guestBackend  string
	guestURL      string
	guestTimeout  time.Duration
	guestInterval time.Duration
	guestOnce     bool
	guestDemo     bool
)

var guestCmd = &cobra.Command{
	Use:   "guest",
	Short: "Receive GPS location records from the host",
	Long: `Receive GPS location records from the host. Every interval the
client fetches the latest record over the configured backend and prints
it. The guest property backend reads through VBoxControl, which needs
the VirtualBox Guest Additions, the HTTP backend polls the host's record
endpoint. With --once a single fetch is performed and the client exits.`,
	RunE: runGuest,
	Args: cobra.NoArgs,
}

func init() {
	guestCmd.Flags().StringVar(&guestBackend, "backend", constants.DefaultGuestBackend, "fetch backend (guest_properties or http)")
	guestCmd.Flags().StringVar(&guestURL, "url", constants.DefaultGuestURL, "host record endpoint for the http backend")
	guestCmd.Flags().DurationVar(&guestTimeout, "timeout", fetch.DefaultHTTPTimeout, "timeout for one fetch round trip")
	guestCmd.Flags().DurationVar(&guestInterval, "interval", constants.DefaultFetchInterval, "fetch interval")
	guestCmd.Flags().BoolVar(&guestOnce, "once", false, "fetch the location once and exit")
	guestCmd.Flags().BoolVar(&guestDemo, "demo", false, "serve canned records instead of contacting a host")
	rootCmd.AddCommand(guestCmd)
}

func runGuest(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	overlayGuestFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Logging.Level)
	sink := newConsoleSink(os.Stdout)
	fetcher := buildFetcher(cfg, logger)
	svc := services.NewGuestService(time.Duration(cfg.Guest.Interval), fetcher, sink, logger)

	if guestOnce {
		err := svc.FetchOnce(cmd.Context())
		if closeErr := fetcher.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("Failed to close fetcher")
		}
		// Absence of data is a normal outcome for a one-shot fetch.
		if err != nil && !errors.Is(err, fetch.ErrNoData) {
			return err
		}
		return nil
	}

	registry := services.NewRegistry(logger)
	registry.Register("guest", svc)
	if err := registry.StartAll(); err != nil {
		return err
	}

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	logger.Info().Msg("Shutting down gracefully...")
	return registry.StopAll()
}

func buildFetcher(cfg *utils.Config, logger zerolog.Logger) fetch.Fetcher {
	if guestDemo {
		return demoFetcher{}
	}
	if cfg.Guest.Backend == fetch.FetcherHTTP {
		return fetch.NewHTTPClient(cfg.Guest.URL, logger,
			fetch.WithHTTPTimeout(time.Duration(cfg.Guest.Timeout)))
	}

	opts := []propstore.VBoxControlOption{
		propstore.WithVBoxControlTimeout(time.Duration(cfg.Guest.CommandTimeout)),
	}
	if cfg.Guest.VBoxControlPath != "" {
		opts = append(opts, propstore.WithVBoxControlPath(cfg.Guest.VBoxControlPath))
	}
	store := propstore.NewVBoxControl(logger, opts...)
	return fetch.NewGuestProps(store, propstore.KeysFor(cfg.Guest.KeyPrefix), logger)
}

// overlayGuestFlags applies explicitly set flags on top of the loaded
// configuration.
func overlayGuestFlags(cmd *cobra.Command, cfg *utils.Config) {
	if cmd.Flags().Changed("backend") {
		cfg.Guest.Backend = guestBackend
	}
	if cmd.Flags().Changed("url") {
		cfg.Guest.URL = guestURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Guest.Timeout = utils.Duration(guestTimeout)
	}
	if cmd.Flags().Changed("interval") {
		cfg.Guest.Interval = utils.Duration(guestInterval)
	}
}

// demoFetcher serves canned records so the guest loop can be exercised
// without a running host.
type demoFetcher struct{}

func (demoFetcher) Name() string { return "demo" }

func (demoFetcher) FetchLatest(_ context.Context) (gps.Record, error) {
	return gps.Record{
		Latitude:  gps.DefaultBaseLatitude,
		Longitude: gps.DefaultBaseLongitude,
		Altitude:  50.0,
		Accuracy:  10.0,
		Timestamp: gps.FormatTimestamp(time.Now()),
		Source:    gps.SourceDemo,
	}, nil
}

func (demoFetcher) Close() error { return nil }
