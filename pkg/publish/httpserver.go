package publish

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
)

const shutdownTimeout = 5 * time.Second

// HTTPServer serves the latest published record over HTTP. The surface is
// a single route: GET /gps returns the record as JSON, anything else is
// 404. Later publishes supersede earlier ones; there is no history.
type HTTPServer struct {
	listener net.Listener
	server   *http.Server
	logger   zerolog.Logger

	mu     sync.RWMutex
	latest gps.Record
}

// NewHTTPServer binds addr and starts serving. A failed bind wraps
// ErrBindFailure and leaves nothing running; the caller decides whether to
// carry on without the backend. Until the first publish the route serves a
// fixed demo record, so readers never observe a partial document.
func NewHTTPServer(addr string, logger zerolog.Logger) (*HTTPServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBindFailure, addr, err)
	}

	s := &HTTPServer{
		listener: listener,
		logger:   logger,
		latest:   defaultRecord(time.Now()),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestID(), accessLog(logger), gin.Recovery())
	engine.GET(gps.HTTPPath, s.handleGetRecord)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	s.server = &http.Server{Handler: engine}
	go func() {
		if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("HTTP record server stopped unexpectedly")
		}
	}()

	s.logger.Info().Str("addr", s.Addr()).Msg("HTTP record server listening")
	return s, nil
}

// defaultRecord is served before the first publish.
func defaultRecord(now time.Time) gps.Record {
	return gps.Record{
		Latitude:  37.7749,
		Longitude: -122.4194,
		Altitude:  50.0,
		Accuracy:  10.0,
		Timestamp: gps.FormatTimestamp(now),
		Source:    gps.SourceDemo,
	}
}

// Name implements Backend.
func (s *HTTPServer) Name() string {
	return BackendHTTP
}

// Publish swaps the served record.
func (s *HTTPServer) Publish(_ context.Context, record gps.Record) error {
	s.mu.Lock()
	s.latest = record
	s.mu.Unlock()
	return nil
}

// Addr returns the bound listen address, useful when binding port 0.
func (s *HTTPServer) Addr() string {
	return s.listener.Addr().String()
}

// Close drains in-flight requests and releases the listener.
func (s *HTTPServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleGetRecord(c *gin.Context) {
	s.mu.RLock()
	record := s.latest
	s.mu.RUnlock()
	c.JSON(http.StatusOK, record)
}
