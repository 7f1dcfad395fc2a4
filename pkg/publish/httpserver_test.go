package publish_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/publish"
)

func startServer(t *testing.T) *publish.HTTPServer {
	t.Helper()
	server, err := publish.NewHTTPServer("127.0.0.1:0", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })
	return server
}

func getRecord(t *testing.T, server *publish.HTTPServer) gps.Record {
	t.Helper()
	resp, err := http.Get("http://" + server.Addr() + "/gps")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	record, err := gps.Decode(body)
	require.NoError(t, err)
	return record
}

// TestHTTPServer_ServesDefaultRecordBeforeFirstPublish tests that the
// route serves the fixed demo record until something is published.
func TestHTTPServer_ServesDefaultRecordBeforeFirstPublish(t *testing.T) {
	server := startServer(t)

	record := getRecord(t, server)

	assert.Equal(t, 37.7749, record.Latitude)
	assert.Equal(t, -122.4194, record.Longitude)
	assert.Equal(t, 50.0, record.Altitude)
	assert.Equal(t, 10.0, record.Accuracy)
	assert.Equal(t, gps.SourceDemo, record.Source)
}

// TestHTTPServer_ServesPublishedRecord tests that a published record is
// returned field for field.
func TestHTTPServer_ServesPublishedRecord(t *testing.T) {
	server := startServer(t)
	published := gps.Record{
		Latitude:  12.34,
		Longitude: 56.78,
		Altitude:  9.9,
		Accuracy:  3.3,
		Timestamp: "2024-01-15T10:30:00Z",
		Source:    gps.SourceSimulated,
	}

	require.NoError(t, server.Publish(context.Background(), published))

	assert.Equal(t, published, getRecord(t, server))
}

// TestHTTPServer_LaterPublishSupersedes tests that only the latest record
// is served.
func TestHTTPServer_LaterPublishSupersedes(t *testing.T) {
	server := startServer(t)
	first := testRecord()
	second := first
	second.Latitude = 51.5074
	second.Timestamp = "2024-01-15T10:30:05Z"

	require.NoError(t, server.Publish(context.Background(), first))
	require.NoError(t, server.Publish(context.Background(), second))

	assert.Equal(t, second, getRecord(t, server))
}

// TestHTTPServer_NotFoundOutsideContract tests that every path and method
// outside GET /gps is a 404.
func TestHTTPServer_NotFoundOutsideContract(t *testing.T) {
	server := startServer(t)
	base := "http://" + server.Addr()

	tests := []struct {
		name    string
		request func() (*http.Response, error)
	}{
		{"unknown path", func() (*http.Response, error) { return http.Get(base + "/location") }},
		{"root path", func() (*http.Response, error) { return http.Get(base + "/") }},
		{"post to the record route", func() (*http.Response, error) {
			return http.Post(base+"/gps", "application/json", nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.request()
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

// TestHTTPServer_BindFailure tests that a conflicting bind reports
// ErrBindFailure instead of starting.
func TestHTTPServer_BindFailure(t *testing.T) {
	server := startServer(t)

	_, err := publish.NewHTTPServer(server.Addr(), zerolog.Nop())

	assert.ErrorIs(t, err, publish.ErrBindFailure)
}

// TestHTTPServer_RequestIDEchoed tests that the request id header is
// generated when absent and echoed when supplied.
func TestHTTPServer_RequestIDEchoed(t *testing.T) {
	server := startServer(t)
	url := "http://" + server.Addr() + "/gps"

	resp, err := http.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "test-correlation-id")

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "test-correlation-id", resp.Header.Get("X-Request-ID"))
}
