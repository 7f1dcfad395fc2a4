package fetch_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/fetch"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/publish"
)

// TestHTTPClient_FetchLatest_FromRecordServer tests the full HTTP round
// trip against the real host-side server.
func TestHTTPClient_FetchLatest_FromRecordServer(t *testing.T) {
	// Setup
	server, err := publish.NewHTTPServer("127.0.0.1:0", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })

	record := testRecord()
	require.NoError(t, server.Publish(context.Background(), record))

	fetcher := fetch.NewHTTPClient("http://"+server.Addr(), zerolog.Nop())

	// Execute
	got, err := fetcher.FetchLatest(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

// TestHTTPClient_FetchLatest_NotFoundIsNoData tests that a 404 reads as
// nothing published yet.
func TestHTTPClient_FetchLatest_NotFoundIsNoData(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(stub.Close)

	fetcher := fetch.NewHTTPClient(stub.URL, zerolog.Nop())
	_, err := fetcher.FetchLatest(context.Background())

	assert.ErrorIs(t, err, fetch.ErrNoData)
}

// TestHTTPClient_FetchLatest_ServerErrorIsUnreachable tests that a status
// outside the contract reads as an unreachable endpoint.
func TestHTTPClient_FetchLatest_ServerErrorIsUnreachable(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(stub.Close)

	fetcher := fetch.NewHTTPClient(stub.URL, zerolog.Nop())
	_, err := fetcher.FetchLatest(context.Background())

	assert.ErrorIs(t, err, fetch.ErrUnreachable)
}

// TestHTTPClient_FetchLatest_MalformedBody tests that a schema-violating
// body surfaces as a malformed record.
func TestHTTPClient_FetchLatest_MalformedBody(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not a record"))
	}))
	t.Cleanup(stub.Close)

	fetcher := fetch.NewHTTPClient(stub.URL, zerolog.Nop())
	_, err := fetcher.FetchLatest(context.Background())

	assert.ErrorIs(t, err, gps.ErrMalformedRecord)
}

// TestHTTPClient_FetchLatest_ConnectionRefused tests that a dead endpoint
// reports ErrUnreachable promptly instead of hanging.
func TestHTTPClient_FetchLatest_ConnectionRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	fetcher := fetch.NewHTTPClient("http://"+addr, zerolog.Nop())

	start := time.Now()
	_, err = fetcher.FetchLatest(context.Background())

	assert.ErrorIs(t, err, fetch.ErrUnreachable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

// TestHTTPClient_FetchLatest_Timeout tests that a hanging endpoint is
// abandoned at the configured bound with no retry.
func TestHTTPClient_FetchLatest_Timeout(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(stub.Close)

	fetcher := fetch.NewHTTPClient(stub.URL, zerolog.Nop(),
		fetch.WithHTTPTimeout(100*time.Millisecond))

	start := time.Now()
	_, err := fetcher.FetchLatest(context.Background())

	assert.ErrorIs(t, err, fetch.ErrUnreachable)
	assert.Less(t, time.Since(start), 2*time.Second)
}
