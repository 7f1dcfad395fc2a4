package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
)

// DefaultHTTPTimeout bounds one fetch round trip.
const DefaultHTTPTimeout = 3 * time.Second

// maxResponseBytes caps how much of a response body is read. Records are a
// few hundred bytes; anything larger is not speaking the contract.
const maxResponseBytes = 64 << 10

// HTTPClient pulls the latest record from the host's HTTP endpoint,
// typically the NAT gateway address from inside the guest.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// HTTPClientOption configures an HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPTimeout overrides the round-trip bound.
func WithHTTPTimeout(d time.Duration) HTTPClientOption {
	return func(h *HTTPClient) {
		h.client.Timeout = d
	}
}

// NewHTTPClient creates a fetcher for the host endpoint at baseURL, for
// example "http://10.0.2.2:8080".
func NewHTTPClient(baseURL string, logger zerolog.Logger, opts ...HTTPClientOption) *HTTPClient {
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultHTTPTimeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name implements Fetcher.
func (h *HTTPClient) Name() string {
	return FetcherHTTP
}

// FetchLatest performs one GET against the record route. Transport
// failures and unexpected statuses report ErrUnreachable, a 404 reports
// ErrNoData, and a body that violates the record schema reports
// gps.ErrMalformedRecord.
func (h *HTTPClient) FetchLatest(ctx context.Context) (gps.Record, error) {
	url := h.baseURL + gps.HTTPPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return gps.Record{}, fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return gps.Record{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return gps.Record{}, fmt.Errorf("%w: endpoint returned 404", ErrNoData)
	default:
		return gps.Record{}, fmt.Errorf("%w: unexpected status %d", ErrUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return gps.Record{}, fmt.Errorf("%w: reading response: %v", ErrUnreachable, err)
	}
	return gps.Decode(body)
}

// Close releases pooled connections.
func (h *HTTPClient) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
