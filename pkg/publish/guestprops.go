package publish

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/propstore"
)

// GuestProps delivers records into the VirtualBox guest property tree.
// Each record lands on four keys: the full JSON document plus single-value
// latitude, longitude and timestamp keys for guest-side consumers that do
// not parse JSON.
type GuestProps struct {
	store  propstore.Setter
	keys   propstore.Keys
	logger zerolog.Logger
}

// NewGuestProps creates the guest property backend on the given store.
func NewGuestProps(store propstore.Setter, keys propstore.Keys, logger zerolog.Logger) *GuestProps {
	return &GuestProps{store: store, keys: keys, logger: logger}
}

// Name implements Backend.
func (g *GuestProps) Name() string {
	return BackendGuestProps
}

// Publish writes the record across its property keys. Every key is
// attempted even when an earlier one fails; the errors are joined.
func (g *GuestProps) Publish(ctx context.Context, record gps.Record) error {
	payload, err := record.Encode()
	if err != nil {
		return err
	}

	writes := []struct {
		key   string
		value string
	}{
		{g.keys.Location, string(payload)},
		{g.keys.Latitude, strconv.FormatFloat(record.Latitude, 'f', -1, 64)},
		{g.keys.Longitude, strconv.FormatFloat(record.Longitude, 'f', -1, 64)},
		{g.keys.Timestamp, record.Timestamp},
	}

	var errs []error
	for _, w := range writes {
		if err := g.store.Set(ctx, w.key, w.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", w.key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	g.logger.Debug().Str("key", g.keys.Location).Msg("Record written to guest properties")
	return nil
}

// Close is a no-op; property writes hold no persistent resources.
func (g *GuestProps) Close() error {
	return nil
}
