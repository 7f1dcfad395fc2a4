package command

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elvismircan/vbox-host-guest-location-sharing/internal/constants"
	"github.com/elvismircan/vbox-host-guest-location-sharing/internal/services"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/fetch"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/propstore"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/publish"
	"github.com/spf13/cobra"
)

var (
	demoDuration time.Duration
	demoInterval time.Duration
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run host and guest side by side over an in-process store",
	Long: `Run host and guest side by side over an in-process store. The
host service publishes simulated readings, the guest service fetches and
prints them, and after the configured duration both are stopped. Nothing
touches VirtualBox, so this shows the full data path on any machine.`,
	RunE: runDemo,
	Args: cobra.NoArgs,
}

func init() {
	demoCmd.Flags().DurationVar(&demoDuration, "duration", constants.DefaultDemoDuration, "how long to run the demo")
	demoCmd.Flags().DurationVar(&demoInterval, "interval", constants.DefaultDemoInterval, "update interval")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(_ *cobra.Command, _ []string) error {
	logger := newLogger(constants.DefaultLogLevel)
	store := propstore.NewMemory()
	keys := propstore.KeysFor(propstore.DefaultPrefix)

	channel := publish.NewChannel(logger)
	channel.Attach(publish.NewGuestProps(store, keys, logger))

	registry := services.NewRegistry(logger)
	registry.Register("host", services.NewHostService(
		demoInterval, gps.NewSimulatedSource(), channel, logger,
	))
	registry.Register("guest", services.NewGuestService(
		demoInterval, fetch.NewGuestProps(store, keys, logger), newConsoleSink(os.Stdout), logger,
	))

	if err := registry.StartAll(); err != nil {
		return err
	}

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-time.After(demoDuration):
	case <-stopCh:
		logger.Info().Msg("Demo interrupted")
	}

	return registry.StopAll()
}
