package gps

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Known source tags. The set is extensible: validation only requires a
// non-empty tag, so records from future acquisition paths decode without a
// schema change.
const (
	SourceSimulated = "simulated"
	SourceReal      = "real"
	SourceDemo      = "demo"
)

// TimestampLayout is the wire format for record timestamps: ISO-8601 UTC at
// second precision. The trailing Z is a literal, so offset and fractional
// forms are rejected on decode.
const TimestampLayout = "2006-01-02T15:04:05Z"

// HTTPPath is the single route the HTTP transport serves records on.
const HTTPPath = "/gps"

// ErrMalformedRecord indicates a payload that violates the record wire
// schema: a missing field, a wrong JSON type, or an out-of-range value.
var ErrMalformedRecord = errors.New("malformed location record")

// ErrSourceUnavailable indicates a location source whose platform bridge is
// not implemented or not accessible.
var ErrSourceUnavailable = errors.New("location source unavailable")

var validate = validator.New()

// Record is a single location reading moved from host to guest. Records are
// immutable values: constructed fully populated, never mutated, and
// superseded (not merged) by the next reading.
type Record struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Altitude  float64 `json:"altitude"`
	Accuracy  float64 `json:"accuracy" validate:"gte=0"`
	Timestamp string  `json:"timestamp" validate:"required"`
	Source    string  `json:"source" validate:"required"`
}

// FormatTimestamp renders an instant in the record wire format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a record timestamp, rejecting anything that is not
// UTC at second precision with a trailing Z. time.Parse tolerates a
// fractional second the layout does not name, so the canonical form is
// enforced by re-rendering.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if rendered := t.Format(TimestampLayout); rendered != s {
		return time.Time{}, fmt.Errorf("timestamp %q is not in the canonical form %q", s, rendered)
	}
	return t, nil
}

// Validate checks the record against the wire schema constraints. All
// failures wrap ErrMalformedRecord.
func (r Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if _, err := ParseTimestamp(r.Timestamp); err != nil {
		return fmt.Errorf("%w: timestamp %q: %v", ErrMalformedRecord, r.Timestamp, err)
	}
	return nil
}

// Encode serializes the record to its compact JSON wire form. Partial or
// out-of-range records are never put on the wire.
func (r Record) Encode() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(r)
}

// wireRecord mirrors Record with pointer fields so Decode can tell a missing
// field from a zero value.
type wireRecord struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Altitude  *float64 `json:"altitude"`
	Accuracy  *float64 `json:"accuracy"`
	Timestamp *string  `json:"timestamp"`
	Source    *string  `json:"source"`
}

func (w wireRecord) missing() []string {
	var fields []string
	if w.Latitude == nil {
		fields = append(fields, "latitude")
	}
	if w.Longitude == nil {
		fields = append(fields, "longitude")
	}
	if w.Altitude == nil {
		fields = append(fields, "altitude")
	}
	if w.Accuracy == nil {
		fields = append(fields, "accuracy")
	}
	if w.Timestamp == nil {
		fields = append(fields, "timestamp")
	}
	if w.Source == nil {
		fields = append(fields, "source")
	}
	return fields
}

// Decode parses and validates a JSON wire record. Unknown extra fields are
// tolerated; every schema field must be present, well-typed and in range.
func Decode(data []byte) (Record, error) {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if fields := w.missing(); len(fields) > 0 {
		return Record{}, fmt.Errorf("%w: missing fields %v", ErrMalformedRecord, fields)
	}
	r := Record{
		Latitude:  *w.Latitude,
		Longitude: *w.Longitude,
		Altitude:  *w.Altitude,
		Accuracy:  *w.Accuracy,
		Timestamp: *w.Timestamp,
		Source:    *w.Source,
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}
