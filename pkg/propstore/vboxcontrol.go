package propstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

const defaultVBoxControlTool = "VBoxControl"

// VBoxControl reads guest properties through the VBoxControl CLI shipped
// with the VirtualBox Guest Additions. The tool is resolved per call, not
// at construction: the read path is chosen by configuration, and a missing
// tool must surface on every fetch rather than prevent startup.
type VBoxControl struct {
	tool    string
	timeout time.Duration
	logger  zerolog.Logger
}

// VBoxControlOption configures a VBoxControl store.
type VBoxControlOption func(*VBoxControl)

// WithVBoxControlPath overrides the tool path.
func WithVBoxControlPath(path string) VBoxControlOption {
	return func(c *VBoxControl) {
		c.tool = path
	}
}

// WithVBoxControlTimeout overrides the per-invocation timeout.
func WithVBoxControlTimeout(d time.Duration) VBoxControlOption {
	return func(c *VBoxControl) {
		c.timeout = d
	}
}

// NewVBoxControl creates the guest-side CLI store. An absent tool is only
// warned about here; Get reports ErrToolMissing when actually invoked.
func NewVBoxControl(logger zerolog.Logger, opts ...VBoxControlOption) *VBoxControl {
	c := &VBoxControl{
		tool:    defaultVBoxControlTool,
		timeout: DefaultCommandTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	if _, err := exec.LookPath(c.tool); err != nil {
		c.logger.Warn().Str("tool", c.tool).
			Msg("VBoxControl not found, guest property reads will fail until the Guest Additions are installed")
	}
	return c
}

// Get reads one guest property via `VBoxControl guestproperty get`. An
// unset property and a non-zero tool exit both report ErrNotFound; the
// tool missing from the PATH reports ErrToolMissing.
func (c *VBoxControl) Get(ctx context.Context, key string) (string, error) {
	stdout, _, err := runTool(ctx, c.timeout, c.tool, "guestproperty", "get", key)
	if err != nil {
		// A bare tool name that fails PATH lookup surfaces as *exec.Error,
		// an explicit path that does not exist as fs.ErrNotExist.
		var execErr *exec.Error
		if errors.As(err, &execErr) || errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %v", ErrToolMissing, c.tool, err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("VBoxControl guestproperty get timed out after %s", c.timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return "", fmt.Errorf("VBoxControl guestproperty get failed: %w", err)
	}

	value, ok := parsePropertyValue(stdout)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	c.logger.Debug().Str("key", key).Str("value", truncateValue(value)).Msg("Guest property read")
	return value, nil
}
