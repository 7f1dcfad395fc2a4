package constants

import "time"

// Source modes selectable for the host service.
const (
	// SourceModeSimulated drives the host from the random-walk simulator.
	SourceModeSimulated = "simulated"
	// SourceModeReal drives the host from platform location services.
	SourceModeReal = "real"
)

const (
	// DefaultVMName is the VirtualBox VM targeted when none is configured.
	DefaultVMName = "MyVM"

	// DefaultPublishInterval is the delay between published host readings.
	DefaultPublishInterval = 5 * time.Second

	// DefaultFetchInterval is the delay between guest fetch attempts.
	DefaultFetchInterval = 5 * time.Second

	// DefaultListenAddr is where the HTTP record server binds.
	DefaultListenAddr = ":8080"

	// DefaultGuestURL is the host record endpoint as seen from a guest
	// behind VirtualBox NAT.
	DefaultGuestURL = "http://10.0.2.2:8080"

	// DefaultGuestBackend is the transport guests fetch through.
	DefaultGuestBackend = "guest_properties"

	// DefaultLogLevel is the minimum level for emitted logs.
	DefaultLogLevel = "info"
)

// Demo mode defaults: a short side-by-side run over the in-process store.
const (
	DefaultDemoDuration = 30 * time.Second
	DefaultDemoInterval = 3 * time.Second
)
