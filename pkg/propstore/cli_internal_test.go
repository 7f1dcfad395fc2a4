package propstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseVBoxVersion tests the lenient version parse against real
// VBoxManage output shapes.
func TestParseVBoxVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{"release build", "7.0.14r161095\n", "7.0.14", false},
		{"ubuntu build", "6.1.50_Ubuntur161033\n", "6.1.50", false},
		{"plain version", "7.0.14", "7.0.14", false},
		{"warning then version", "WARNING: The vboxdrv kernel module is not loaded.\n7.0.14r161095\n", "7.0.14", false},
		{"no digits", "not a version", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, err := parseVBoxVersion(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, version.String())
		})
	}
}

// TestParsePropertyValue tests extraction of the value from guestproperty
// output.
func TestParsePropertyValue(t *testing.T) {
	banner := "Oracle VM VirtualBox Guest Additions Command Line Management Interface Version 7.0.14\n" +
		"Copyright (C) 2008-2024 Oracle and/or its affiliates\n\n"

	tests := []struct {
		name   string
		output string
		want   string
		found  bool
	}{
		{"value with banner", banner + "Value: hello world\n", "hello world", true},
		{"bare value line", "Value: 37.7749\n", "37.7749", true},
		{"json value", `Value: {"latitude": 37.7749}`, `{"latitude": 37.7749}`, true},
		{"no marker", banner + "No value set!\n", "", false},
		{"empty output", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, found := parsePropertyValue(tt.output)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, value)
		})
	}
}

// TestTruncateValue tests the debug log truncation boundary.
func TestTruncateValue(t *testing.T) {
	assert.Equal(t, "short", truncateValue("short"))

	exact := strings.Repeat("x", logValueLimit)
	assert.Equal(t, exact, truncateValue(exact))

	long := strings.Repeat("x", logValueLimit+1)
	assert.Equal(t, exact+"...", truncateValue(long))
}
