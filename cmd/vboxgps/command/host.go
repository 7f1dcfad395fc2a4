package command

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elvismircan/vbox-host-guest-location-sharing/internal/constants"
	"github.com/elvismircan/vbox-host-guest-location-sharing/internal/services"
	"github.com/elvismircan/vbox-host-guest-location-sharing/internal/utils"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/propstore"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/publish"
	"github.com/spf13/cobra"
)

var (
	hostVM           string
	hostInterval     time.Duration
	hostDemo         bool
	hostSource       string
	hostHTTP         bool
	hostListen       string
	hostNoGuestProps bool
	hostKeyPrefix    string
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Publish GPS location records to guest VMs",
	Long: `Publish GPS location records to guest VMs. Every interval the
service takes a reading from the configured source and writes it to all
active backends. The guest property backend targets the VM named by
--vm through VBoxManage, the HTTP backend serves the latest record on
the configured listen address. With --demo the records go to an
in-process store instead, so no VirtualBox installation is required.`,
	RunE: runHost,
	Args: cobra.NoArgs,
}

func init() {
	hostCmd.Flags().StringVar(&hostVM, "vm", constants.DefaultVMName, "name of the VirtualBox VM")
	hostCmd.Flags().DurationVar(&hostInterval, "interval", constants.DefaultPublishInterval, "update interval")
	hostCmd.Flags().BoolVar(&hostDemo, "demo", false, "run with simulated GPS data against an in-process store")
	hostCmd.Flags().StringVar(&hostSource, "source", constants.SourceModeSimulated, "location source (simulated or real)")
	hostCmd.Flags().BoolVar(&hostHTTP, "http", false, "enable the HTTP record server backend")
	hostCmd.Flags().StringVar(&hostListen, "listen", constants.DefaultListenAddr, "listen address for the HTTP backend")
	hostCmd.Flags().BoolVar(&hostNoGuestProps, "no-guest-props", false, "disable the guest property backend")
	hostCmd.Flags().StringVar(&hostKeyPrefix, "key-prefix", propstore.DefaultPrefix, "guest property key prefix")
	rootCmd.AddCommand(hostCmd)
}

func runHost(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	overlayHostFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Logging.Level)
	keys := propstore.KeysFor(cfg.Host.KeyPrefix)
	channel := publish.NewChannel(logger)

	switch {
	case !cfg.Host.GuestProperties.Enabled:
		channel.AttachDisabled(publish.BackendGuestProps, errors.New("disabled by configuration"))
	case hostDemo:
		channel.Attach(publish.NewGuestProps(propstore.NewMemory(), keys, logger))
	default:
		opts := []propstore.VBoxManageOption{
			propstore.WithVBoxManageTimeout(time.Duration(cfg.Host.GuestProperties.CommandTimeout)),
		}
		if cfg.Host.GuestProperties.VBoxManagePath != "" {
			opts = append(opts, propstore.WithVBoxManagePath(cfg.Host.GuestProperties.VBoxManagePath))
		}
		store, err := propstore.SelectHostStore(cmd.Context(), nil, cfg.Host.VMName, logger, opts...)
		if err != nil {
			logger.Error().Err(err).Msg("Guest property backend unavailable")
			channel.AttachDisabled(publish.BackendGuestProps, err)
		} else {
			channel.Attach(publish.NewGuestProps(store, keys, logger))
		}
	}

	if cfg.Host.HTTP.Enabled {
		server, err := publish.NewHTTPServer(cfg.Host.HTTP.Listen, logger)
		if err != nil {
			logger.Error().Err(err).Msg("HTTP backend unavailable")
			channel.AttachDisabled(publish.BackendHTTP, err)
		} else {
			channel.Attach(server)
		}
	} else {
		channel.AttachDisabled(publish.BackendHTTP, errors.New("disabled by configuration"))
	}

	if channel.Active() == 0 {
		_ = channel.Close()
		return errors.New("no publish backend available")
	}

	var source gps.Source
	if cfg.Host.Source == constants.SourceModeReal {
		source = gps.NewPlatformSource()
	} else {
		source = gps.NewSimulatedSource()
	}

	registry := services.NewRegistry(logger)
	registry.Register("host", services.NewHostService(
		time.Duration(cfg.Host.Interval), source, channel, logger,
	))
	if err := registry.StartAll(); err != nil {
		return err
	}

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	logger.Info().Msg("Shutting down gracefully...")
	return registry.StopAll()
}

// overlayHostFlags applies explicitly set flags on top of the loaded
// configuration, so flags win over the file and the file over defaults.
func overlayHostFlags(cmd *cobra.Command, cfg *utils.Config) {
	if cmd.Flags().Changed("vm") {
		cfg.Host.VMName = hostVM
	}
	if cmd.Flags().Changed("interval") {
		cfg.Host.Interval = utils.Duration(hostInterval)
	}
	if cmd.Flags().Changed("source") {
		cfg.Host.Source = hostSource
	}
	if cmd.Flags().Changed("key-prefix") {
		cfg.Host.KeyPrefix = hostKeyPrefix
	}
	if cmd.Flags().Changed("http") {
		cfg.Host.HTTP.Enabled = hostHTTP
	}
	if cmd.Flags().Changed("listen") {
		cfg.Host.HTTP.Listen = hostListen
	}
	if hostNoGuestProps {
		cfg.Host.GuestProperties.Enabled = false
	}
	if hostDemo {
		cfg.Host.Source = constants.SourceModeSimulated
	}
}
