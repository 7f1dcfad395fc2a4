package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/elvismircan/vbox-host-guest-location-sharing/internal/constants"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/fetch"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/file"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/propstore"
)

var validate = validator.New()

// Config represents the structure of the configuration file. Command-line
// flags overlay these values before validation; the service and transport
// packages only ever see the final plain values.
type Config struct {
	Host struct {
		VMName    string   `yaml:"vm_name" validate:"required"`             // Target VirtualBox VM for guest property writes
		Interval  Duration `yaml:"interval" validate:"gt=0"`                // Delay between published readings
		Source    string   `yaml:"source" validate:"oneof=simulated real"`  // Location source backing the host service
		KeyPrefix string   `yaml:"key_prefix"`                              // Guest property subtree records are written under

		GuestProperties struct {
			Enabled        bool     `yaml:"enabled"`                         // Enable the guest property backend
			VBoxManagePath string   `yaml:"vboxmanage_path"`                 // Optional VBoxManage location override
			CommandTimeout Duration `yaml:"command_timeout" validate:"gt=0"` // Bound on one VBoxManage invocation
		} `yaml:"guest_properties"`

		HTTP struct {
			Enabled bool   `yaml:"enabled"`                    // Enable the HTTP record server backend
			Listen  string `yaml:"listen" validate:"required"` // Listen address for the record server
		} `yaml:"http"`
	} `yaml:"host"`

	Guest struct {
		Backend         string   `yaml:"backend" validate:"oneof=guest_properties http"` // Transport records are fetched through
		Interval        Duration `yaml:"interval" validate:"gt=0"`                       // Delay between fetch attempts
		KeyPrefix       string   `yaml:"key_prefix"`                                     // Guest property subtree records are read from
		URL             string   `yaml:"url" validate:"required_if=Backend http"`        // Host record endpoint for the http backend
		Timeout         Duration `yaml:"timeout" validate:"gt=0"`                        // Bound on one HTTP fetch round trip
		VBoxControlPath string   `yaml:"vboxcontrol_path"`                               // Optional VBoxControl location override
		CommandTimeout  Duration `yaml:"command_timeout" validate:"gt=0"`                // Bound on one VBoxControl invocation
	} `yaml:"guest"`

	Logging struct {
		Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"` // Minimum level for emitted logs
	} `yaml:"logging"`
}

// DefaultConfig returns a configuration carrying the shipped defaults.
// File values and then flag values overlay it.
func DefaultConfig() *Config {
	var c Config

	c.Host.VMName = constants.DefaultVMName
	c.Host.Interval = Duration(constants.DefaultPublishInterval)
	c.Host.Source = constants.SourceModeSimulated
	c.Host.KeyPrefix = propstore.DefaultPrefix
	c.Host.GuestProperties.Enabled = true
	c.Host.GuestProperties.CommandTimeout = Duration(propstore.DefaultCommandTimeout)
	c.Host.HTTP.Listen = constants.DefaultListenAddr

	c.Guest.Backend = constants.DefaultGuestBackend
	c.Guest.Interval = Duration(constants.DefaultFetchInterval)
	c.Guest.KeyPrefix = propstore.DefaultPrefix
	c.Guest.URL = constants.DefaultGuestURL
	c.Guest.Timeout = Duration(fetch.DefaultHTTPTimeout)
	c.Guest.CommandTimeout = Duration(propstore.DefaultCommandTimeout)

	c.Logging.Level = constants.DefaultLogLevel
	return &c
}

// LoadConfig loads the YAML configuration from the specified file over the
// defaults, so values absent from the file keep their shipped defaults.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	exists, err := fileClient.IsFileExists(filename)
	if err != nil {
		return nil, fmt.Errorf("checking config %s: %w", filename, err)
	}
	if !exists {
		return nil, fmt.Errorf("config file %s does not exist", filename)
	}

	config := DefaultConfig()
	if err := fileClient.ReadYamlFile(filename, config); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", filename, err)
	}
	return config, nil
}

// Validate checks the fully assembled configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
