package gps

import (
	"math"
	"math/rand"
	"time"
)

// Default simulation parameters: a random walk around downtown San Francisco
// with plausible altitude and accuracy spreads.
const (
	DefaultBaseLatitude  = 37.7749
	DefaultBaseLongitude = -122.4194
	DefaultVariance      = 0.01

	defaultAltitudeMin = 0.0
	defaultAltitudeMax = 100.0
	defaultAccuracyMin = 5.0
	defaultAccuracyMax = 20.0
)

// SimulatedSource generates location readings by perturbing a fixed base
// coordinate with bounded symmetric noise. It never fails and carries no
// shared state, so independent instances drift independently.
//
// A SimulatedSource is meant to be driven by a single polling loop and is
// not safe for concurrent use.
type SimulatedSource struct {
	baseLat  float64
	baseLon  float64
	variance float64
	altMin   float64
	altMax   float64
	accMin   float64
	accMax   float64
	rng      *rand.Rand
	now      func() time.Time
}

// SimulatedOption configures a SimulatedSource.
type SimulatedOption func(*SimulatedSource)

// WithBase overrides the base coordinate readings are perturbed around.
func WithBase(lat, lon float64) SimulatedOption {
	return func(s *SimulatedSource) {
		s.baseLat = lat
		s.baseLon = lon
	}
}

// WithVariance bounds the symmetric latitude/longitude perturbation range.
func WithVariance(v float64) SimulatedOption {
	return func(s *SimulatedSource) {
		s.variance = v
	}
}

// WithAltitudeRange overrides the range altitude readings are drawn from.
func WithAltitudeRange(min, max float64) SimulatedOption {
	return func(s *SimulatedSource) {
		s.altMin = min
		s.altMax = max
	}
}

// WithAccuracyRange overrides the range accuracy readings are drawn from.
func WithAccuracyRange(min, max float64) SimulatedOption {
	return func(s *SimulatedSource) {
		s.accMin = min
		s.accMax = max
	}
}

// WithSeed seeds the random walk for reproducible sequences.
func WithSeed(seed int64) SimulatedOption {
	return func(s *SimulatedSource) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) SimulatedOption {
	return func(s *SimulatedSource) {
		s.now = now
	}
}

// NewSimulatedSource creates a simulated location source with the default
// base coordinate and spreads, adjusted by the given options.
func NewSimulatedSource(opts ...SimulatedOption) *SimulatedSource {
	s := &SimulatedSource{
		baseLat:  DefaultBaseLatitude,
		baseLon:  DefaultBaseLongitude,
		variance: DefaultVariance,
		altMin:   defaultAltitudeMin,
		altMax:   defaultAltitudeMax,
		accMin:   defaultAccuracyMin,
		accMax:   defaultAccuracyMax,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextReading returns a fresh simulated reading stamped with the current
// instant. Coordinates are clamped so a base near a range boundary cannot
// produce an out-of-range record.
func (s *SimulatedSource) NextReading() (Record, error) {
	return Record{
		Latitude:  round6(clamp(s.baseLat+s.uniform(-s.variance, s.variance), -90, 90)),
		Longitude: round6(clamp(s.baseLon+s.uniform(-s.variance, s.variance), -180, 180)),
		Altitude:  round2(s.uniform(s.altMin, s.altMax)),
		Accuracy:  round2(s.uniform(s.accMin, s.accMax)),
		Timestamp: FormatTimestamp(s.now()),
		Source:    SourceSimulated,
	}, nil
}

// Close is a no-op; the simulated source holds no resources.
func (s *SimulatedSource) Close() error {
	return nil
}

func (s *SimulatedSource) uniform(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

func clamp(v, min, max float64) float64 {
	return math.Min(math.Max(v, min), max)
}

// Coordinates round to 6 decimals and meters to 2, matching what consumers
// of the single-value property keys expect.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func round2(v float64) float64 {
	return math.Round(v*1e2) / 1e2
}
