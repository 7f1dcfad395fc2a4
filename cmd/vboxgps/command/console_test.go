package command

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
	"github.com/stretchr/testify/assert"
)

func fixedSink(buf *bytes.Buffer) *consoleSink {
	sink := newConsoleSink(buf)
	sink.now = func() time.Time {
		return time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	}
	return sink
}

// TestConsoleSink_ShowRecord tests the record block rendering.
func TestConsoleSink_ShowRecord(t *testing.T) {
	var buf bytes.Buffer
	sink := fixedSink(&buf)

	sink.ShowRecord(gps.Record{
		Latitude:  37.7749,
		Longitude: -122.4194,
		Altitude:  52.3,
		Accuracy:  10.5,
		Timestamp: "2024-01-15T10:30:00Z",
		Source:    gps.SourceSimulated,
	})

	want := "\n[2024-01-15 10:30:00] GPS Location Received:\n" +
		"  Latitude:  37.7749\n" +
		"  Longitude: -122.4194\n" +
		"  Altitude:  52.3 m\n" +
		"  Accuracy:  10.5 m\n" +
		"  Timestamp: 2024-01-15T10:30:00Z\n" +
		"  Source:    simulated\n"
	assert.Equal(t, want, buf.String())
}

// TestConsoleSink_ShowWaiting tests the waiting line rendering.
func TestConsoleSink_ShowWaiting(t *testing.T) {
	var buf bytes.Buffer
	sink := fixedSink(&buf)

	sink.ShowWaiting()

	assert.Equal(t, "[2024-01-15 10:30:00] No GPS data available\n", buf.String())
}

// TestConsoleSink_ShowError tests the error line rendering.
func TestConsoleSink_ShowError(t *testing.T) {
	var buf bytes.Buffer
	sink := fixedSink(&buf)

	sink.ShowError(errors.New("location endpoint unreachable"))

	assert.Equal(t, "[2024-01-15 10:30:00] Error fetching location: location endpoint unreachable\n", buf.String())
}
