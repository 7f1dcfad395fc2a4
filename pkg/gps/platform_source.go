package gps

import (
	"fmt"
	"runtime"
)

// PlatformSource stands in for acquisition through the operating system's
// location services. No platform bridge is wired up yet, so every reading
// fails with ErrSourceUnavailable; callers should treat that as an expected
// condition and run a SimulatedSource instead.
type PlatformSource struct {
	goos string
}

// NewPlatformSource creates a real-sensor source for the current platform.
func NewPlatformSource() *PlatformSource {
	return &PlatformSource{goos: runtime.GOOS}
}

// NextReading always fails until a platform integration exists.
func (p *PlatformSource) NextReading() (Record, error) {
	return Record{}, fmt.Errorf("%w: %s integration is not implemented", ErrSourceUnavailable, bridgeName(p.goos))
}

// Close is a no-op.
func (p *PlatformSource) Close() error {
	return nil
}

// bridgeName names the location service a real bridge would talk to.
func bridgeName(goos string) string {
	switch goos {
	case "windows":
		return "Windows Location API"
	case "linux":
		return "GeoClue"
	case "darwin":
		return "CoreLocation"
	default:
		return "platform location services"
	}
}
