package propstore

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

const logValueLimit = 50

// runTool runs a VirtualBox CLI tool with a bounded timeout and returns
// its stdout and stderr. A deadline hit surfaces as the context error.
func runTool(ctx context.Context, timeout time.Duration, name string, args ...string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		err = ctx.Err()
	}
	return stdout.String(), stderr.String(), err
}

// truncateValue shortens property values for debug logs. Full-record JSON
// payloads are too long to log verbatim on every write.
func truncateValue(value string) string {
	if len(value) <= logValueLimit {
		return value
	}
	return value[:logValueLimit] + "..."
}

// parsePropertyValue extracts the value from VBoxControl guestproperty
// output. The tool prints a banner before the "Value: <value>" line, so
// everything up to the marker is discarded.
func parsePropertyValue(out string) (string, bool) {
	_, after, found := strings.Cut(out, "Value:")
	if !found {
		return "", false
	}
	return strings.TrimSpace(after), true
}
