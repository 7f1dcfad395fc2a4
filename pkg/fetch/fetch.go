// Package fetch pulls the latest location record into the guest. A guest
// runs exactly one fetcher; the transport is chosen by configuration,
// never probed or auto-detected.
package fetch

import (
	"context"
	"errors"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
)

// Fetcher names as they appear in configuration.
const (
	FetcherGuestProps = "guest_properties"
	FetcherHTTP       = "http"
)

// ErrNoData indicates the transport answered but nothing has been
// published yet. Polling callers treat it as a normal state, not a fault.
var ErrNoData = errors.New("no location data available yet")

// ErrUnreachable indicates the transport endpoint could not be reached
// within the configured bound.
var ErrUnreachable = errors.New("location endpoint unreachable")

// Fetcher is the guest-side transport records are pulled through. A fetch
// is one bounded attempt; the polling loop is the retry.
type Fetcher interface {
	Name() string
	FetchLatest(ctx context.Context) (gps.Record, error)
	Close() error
}
