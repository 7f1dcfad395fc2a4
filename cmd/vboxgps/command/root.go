// Package command provides the root and sub-commands for the vboxgps
// binary. Commands are organized using the cobra library.
// The "host" sub-command runs on the VirtualBox host and publishes GPS
// location records to guest VMs, the "guest" sub-command runs inside a
// VM and fetches them, and the "demo" sub-command runs both sides over
// an in-process store so the full data path can be watched without a
// running hypervisor.
//
//	./vboxgps host [--vm MyVM] [--interval 5s] [--http]
//	./vboxgps guest [--backend guest_properties|http] [--once]
//	./vboxgps demo [--duration 30s] [--interval 3s]
package command

import (
	"fmt"
	"os"

	"github.com/elvismircan/vbox-host-guest-location-sharing/internal/utils"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/file"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vboxgps",
	Short: "Share GPS location between a VirtualBox host and its guests",
	Long: `Share GPS location between a VirtualBox host and its guest VMs.
The host side samples a location source and publishes each record over
the configured backends: VirtualBox guest properties written under a
configurable key prefix, and an HTTP endpoint serving the latest record.
The guest side polls one of those backends and renders the records it
receives. Records carry latitude, longitude, altitude, accuracy, a UTC
timestamp and the source that produced them.`,
}

// Execute runs the rootCmd which in turn parses CLI arguments and flags
// and runs the most specific sub-command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)
}

// loadConfig returns the defaults when no config file was named and the
// file overlaid on the defaults otherwise. Flag overrides are applied by
// the sub-commands before validation.
func loadConfig() (*utils.Config, error) {
	if cfgPath == "" {
		return utils.DefaultConfig(), nil
	}
	cfg, err := utils.LoadConfig(cfgPath, file.NewFileService())
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", cfgPath, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs go to stderr so the guest's
// location output on stdout stays clean.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
}
