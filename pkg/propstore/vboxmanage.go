package propstore

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
)

const defaultVBoxManageTool = "VBoxManage"

// minSupportedVBoxVersion is the oldest VirtualBox release the CLI store
// accepts. Guest property flag handling changed across major releases, so
// older installations are refused rather than silently misbehaving.
var minSupportedVBoxVersion = semver.MustParse("6.0.0")

// VBoxManage writes guest properties through the VBoxManage CLI, the
// host-side fallback when no direct store binding is available.
type VBoxManage struct {
	// Configuration fields
	vmName     string
	tool       string
	timeout    time.Duration
	minVersion *semver.Version

	// Dependencies
	logger zerolog.Logger
}

// VBoxManageOption configures a VBoxManage store.
type VBoxManageOption func(*VBoxManage)

// WithVBoxManagePath overrides the tool path. Needed on hosts that keep
// VBoxManage outside the PATH, Windows installations in particular.
func WithVBoxManagePath(path string) VBoxManageOption {
	return func(v *VBoxManage) {
		v.tool = path
	}
}

// WithVBoxManageTimeout overrides the per-invocation timeout.
func WithVBoxManageTimeout(d time.Duration) VBoxManageOption {
	return func(v *VBoxManage) {
		v.timeout = d
	}
}

// WithMinVBoxVersion overrides the minimum accepted VirtualBox version.
func WithMinVBoxVersion(min *semver.Version) VBoxManageOption {
	return func(v *VBoxManage) {
		v.minVersion = min
	}
}

// NewVBoxManage creates the CLI store and probes it once: the tool must
// resolve on the PATH (ErrToolMissing otherwise) and, when its version can
// be determined, must meet the minimum supported VirtualBox release. An
// unparseable version only logs a warning; the store stays usable.
func NewVBoxManage(ctx context.Context, vmName string, logger zerolog.Logger, opts ...VBoxManageOption) (*VBoxManage, error) {
	v := &VBoxManage{
		vmName:     vmName,
		tool:       defaultVBoxManageTool,
		timeout:    DefaultCommandTimeout,
		minVersion: minSupportedVBoxVersion,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(v)
	}

	path, err := exec.LookPath(v.tool)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found on PATH", ErrToolMissing, v.tool)
	}
	v.tool = path

	if err := v.probeVersion(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// probeVersion runs `VBoxManage --version` and gates on the result.
func (v *VBoxManage) probeVersion(ctx context.Context) error {
	stdout, stderr, err := runTool(ctx, v.timeout, v.tool, "--version")
	if err != nil {
		v.logger.Warn().Err(err).Str("stderr", strings.TrimSpace(stderr)).
			Msg("Could not determine VBoxManage version, continuing without version gate")
		return nil
	}

	version, err := parseVBoxVersion(stdout)
	if err != nil {
		v.logger.Warn().Err(err).Msg("Unrecognized VBoxManage version output, continuing without version gate")
		return nil
	}

	if version.LessThan(v.minVersion) {
		return fmt.Errorf("VBoxManage version %s is older than the minimum supported %s", version, v.minVersion)
	}
	v.logger.Debug().Str("version", version.String()).Msg("VBoxManage version probe passed")
	return nil
}

// Set writes one guest property via `VBoxManage guestproperty set`.
func (v *VBoxManage) Set(ctx context.Context, key, value string) error {
	_, stderr, err := runTool(ctx, v.timeout, v.tool, "guestproperty", "set", v.vmName, key, value)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("VBoxManage guestproperty set timed out after %s", v.timeout)
		}
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("VBoxManage guestproperty set failed: %s", msg)
		}
		return fmt.Errorf("VBoxManage guestproperty set failed: %w", err)
	}

	v.logger.Debug().Str("key", key).Str("value", truncateValue(value)).Msg("Guest property written")
	return nil
}

// parseVBoxVersion parses VBoxManage --version output. Releases carry a
// build suffix after the semantic version ("7.0.14r161095",
// "6.1.50_Ubuntur161033") and some builds prepend warning lines, so only
// the leading digits-and-dots run of the last output line is considered.
func parseVBoxVersion(out string) (*semver.Version, error) {
	s := strings.TrimSpace(out)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}
	if i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	}); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return nil, fmt.Errorf("no version number in %q", strings.TrimSpace(out))
	}
	return semver.NewVersion(s)
}
