// Package propstore reads and writes VirtualBox guest properties, the
// hypervisor-mediated key/value tree shared between a host and its guest
// VMs. Three stores exist: Memory (in-process, backing demo mode and
// tests), VBoxManage (host side, via the VBoxManage CLI) and VBoxControl
// (guest side, via the CLI shipped with the Guest Additions).
package propstore

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCommandTimeout bounds each VirtualBox CLI invocation.
const DefaultCommandTimeout = 5 * time.Second

// ErrToolMissing indicates a required VirtualBox control tool could not be
// found on the PATH.
var ErrToolMissing = errors.New("virtualbox control tool missing")

// ErrNotFound indicates the requested property has no value.
var ErrNotFound = errors.New("guest property not set")

// Setter writes guest properties. Implementations on the host side are
// VBoxManage and Memory.
type Setter interface {
	Set(ctx context.Context, key, value string) error
}

// Getter reads guest properties. Implementations on the guest side are
// VBoxControl and Memory.
type Getter interface {
	Get(ctx context.Context, key string) (string, error)
}

// Prober is implemented by stores that can verify their backing machinery
// before being put on the publish path.
type Prober interface {
	Probe(ctx context.Context) error
}

// SelectHostStore picks the store the host publishes guest properties
// through. A direct store binding takes precedence when one is supplied
// and its probe passes; otherwise the VBoxManage CLI is constructed and
// probed. The choice is made once, at startup, and holds for the process
// lifetime regardless of later failures.
func SelectHostStore(ctx context.Context, direct Setter, vmName string, logger zerolog.Logger, opts ...VBoxManageOption) (Setter, error) {
	if direct != nil {
		probeErr := error(nil)
		if p, ok := direct.(Prober); ok {
			probeErr = p.Probe(ctx)
		}
		if probeErr == nil {
			logger.Info().Msg("Using direct store binding for guest properties")
			return direct, nil
		}
		logger.Warn().Err(probeErr).Msg("Direct store binding probe failed, falling back to VBoxManage CLI")
	}

	cli, err := NewVBoxManage(ctx, vmName, logger, opts...)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("vm", vmName).Msg("Using VBoxManage CLI for guest properties")
	return cli, nil
}
