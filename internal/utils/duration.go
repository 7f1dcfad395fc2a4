package utils

import (
	"strings"
	"time"
)

// Duration is a time.Duration that decodes from the human-readable
// time.ParseDuration format in YAML documents ("5s", "1m30s").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler, which yaml.v3 honors
// for scalar nodes.
func (d *Duration) UnmarshalText(data []byte) error {
	parsed, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler. Zero trailing units are
// trimmed for readability, so an hour renders as "1h" rather than
// "1h0m0s".
func (d Duration) MarshalText() ([]byte, error) {
	s := time.Duration(d).String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return []byte(s), nil
}
