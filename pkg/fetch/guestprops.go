package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/propstore"
)

// GuestProps reads the latest record from the VirtualBox guest property
// tree, through VBoxControl on a real guest or an in-process store in demo
// mode.
type GuestProps struct {
	store  propstore.Getter
	keys   propstore.Keys
	logger zerolog.Logger
}

// NewGuestProps creates the property-tree fetcher on the given store.
func NewGuestProps(store propstore.Getter, keys propstore.Keys, logger zerolog.Logger) *GuestProps {
	return &GuestProps{store: store, keys: keys, logger: logger}
}

// Name implements Fetcher.
func (g *GuestProps) Name() string {
	return FetcherGuestProps
}

// FetchLatest reads and decodes the full-record key. An unset property and
// a malformed payload both read as ErrNoData: the host rewrites the key on
// its next tick, so a torn value is a transient, not a fault. Store errors
// such as a missing control tool pass through unchanged.
func (g *GuestProps) FetchLatest(ctx context.Context) (gps.Record, error) {
	payload, err := g.store.Get(ctx, g.keys.Location)
	if err != nil {
		if errors.Is(err, propstore.ErrNotFound) {
			return gps.Record{}, fmt.Errorf("%w: %s", ErrNoData, g.keys.Location)
		}
		return gps.Record{}, err
	}

	record, err := gps.Decode([]byte(payload))
	if err != nil {
		g.logger.Debug().Err(err).Msg("Discarding malformed property payload")
		return gps.Record{}, fmt.Errorf("%w: malformed payload", ErrNoData)
	}
	return record, nil
}

// Close is a no-op; property reads hold no persistent resources.
func (g *GuestProps) Close() error {
	return nil
}
