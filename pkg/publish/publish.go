// Package publish fans location records out from the host to the enabled
// transport backends and reports per-backend outcomes. Backends are
// independent: records published while one backend is down still reach the
// others.
package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
)

// Backend names as they appear in configuration and outcome reports.
const (
	BackendGuestProps = "guest_properties"
	BackendHTTP       = "http"
)

// ErrBindFailure indicates a backend could not acquire its resources at
// construction. The failure is terminal for the process lifetime; the
// backend is never retried.
var ErrBindFailure = errors.New("backend bind failure")

// Status classifies one backend's handling of one published record.
type Status string

const (
	StatusDelivered Status = "delivered"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome is one backend's result for one published record.
type Outcome struct {
	Backend string
	Status  Status
	Err     error
}

// Report aggregates the outcomes of publishing one record across every
// configured backend, disabled ones included.
type Report []Outcome

// Delivered reports whether at least one backend accepted the record.
func (r Report) Delivered() bool {
	for _, o := range r {
		if o.Status == StatusDelivered {
			return true
		}
	}
	return false
}

// Err joins the failure outcomes. Nil when nothing failed.
func (r Report) Err() error {
	var errs []error
	for _, o := range r {
		if o.Status == StatusFailed {
			errs = append(errs, fmt.Errorf("%s: %w", o.Backend, o.Err))
		}
	}
	return errors.Join(errs...)
}

// Backend is one transport records can be delivered through.
type Backend interface {
	Name() string
	Publish(ctx context.Context, record gps.Record) error
	Close() error
}

// Channel is the fan-out set of publish backends. Backends that failed
// construction are attached as disabled so every configured backend still
// appears in each report.
type Channel struct {
	backends []Backend
	disabled []Outcome
	logger   zerolog.Logger
}

// NewChannel creates an empty publish channel.
func NewChannel(logger zerolog.Logger) *Channel {
	return &Channel{logger: logger}
}

// Attach adds an active backend.
func (c *Channel) Attach(b Backend) {
	c.backends = append(c.backends, b)
}

// AttachDisabled records a backend that failed construction. Every publish
// reports it as skipped with the original cause; it is never retried.
func (c *Channel) AttachDisabled(name string, cause error) {
	c.disabled = append(c.disabled, Outcome{Backend: name, Status: StatusSkipped, Err: cause})
}

// Active returns the number of attached active backends.
func (c *Channel) Active() int {
	return len(c.backends)
}

// Publish attempts delivery on every active backend. One backend's failure
// never short-circuits the others.
func (c *Channel) Publish(ctx context.Context, record gps.Record) Report {
	report := make(Report, 0, len(c.backends)+len(c.disabled))
	for _, b := range c.backends {
		if err := b.Publish(ctx, record); err != nil {
			c.logger.Error().Err(err).Str("backend", b.Name()).Msg("Record publish failed")
			report = append(report, Outcome{Backend: b.Name(), Status: StatusFailed, Err: err})
			continue
		}
		report = append(report, Outcome{Backend: b.Name(), Status: StatusDelivered})
	}
	report = append(report, c.disabled...)
	return report
}

// Close shuts down the active backends, joining their errors.
func (c *Channel) Close() error {
	var errs []error
	for _, b := range c.backends {
		if err := b.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}
	return errors.Join(errs...)
}
