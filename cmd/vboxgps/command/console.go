package command

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
)

// consoleSink renders fetch outcomes as human-readable console blocks.
type consoleSink struct {
	out io.Writer
	now func() time.Time
}

func newConsoleSink(out io.Writer) *consoleSink {
	return &consoleSink{out: out, now: time.Now}
}

func (c *consoleSink) ShowRecord(record gps.Record) {
	fmt.Fprintf(c.out, "\n[%s] GPS Location Received:\n", c.timestamp())
	fmt.Fprintf(c.out, "  Latitude:  %s\n", formatValue(record.Latitude))
	fmt.Fprintf(c.out, "  Longitude: %s\n", formatValue(record.Longitude))
	fmt.Fprintf(c.out, "  Altitude:  %s m\n", formatValue(record.Altitude))
	fmt.Fprintf(c.out, "  Accuracy:  %s m\n", formatValue(record.Accuracy))
	fmt.Fprintf(c.out, "  Timestamp: %s\n", record.Timestamp)
	fmt.Fprintf(c.out, "  Source:    %s\n", record.Source)
}

func (c *consoleSink) ShowWaiting() {
	fmt.Fprintf(c.out, "[%s] No GPS data available\n", c.timestamp())
}

func (c *consoleSink) ShowError(err error) {
	fmt.Fprintf(c.out, "[%s] Error fetching location: %v\n", c.timestamp(), err)
}

func (c *consoleSink) timestamp() string {
	return c.now().Format("2006-01-02 15:04:05")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
