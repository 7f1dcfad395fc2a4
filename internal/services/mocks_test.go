package services_test

import (
	"context"
	"sync"

	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/gps"
	"github.com/elvismircan/vbox-host-guest-location-sharing/pkg/publish"
	"github.com/stretchr/testify/mock"
)

// MockSource is a mock implementation of gps.Source.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) NextReading() (gps.Record, error) {
	args := m.Called()
	return args.Get(0).(gps.Record), args.Error(1)
}

func (m *MockSource) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockPublisher is a mock implementation of the Publisher interface.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, record gps.Record) publish.Report {
	args := m.Called(ctx, record)
	return args.Get(0).(publish.Report)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockFetcher is a mock implementation of fetch.Fetcher.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockFetcher) FetchLatest(ctx context.Context) (gps.Record, error) {
	args := m.Called(ctx)
	return args.Get(0).(gps.Record), args.Error(1)
}

func (m *MockFetcher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSink is a mock implementation of the DisplaySink interface.
type MockSink struct {
	mock.Mock
}

func (m *MockSink) ShowRecord(record gps.Record) {
	m.Called(record)
}

func (m *MockSink) ShowWaiting() {
	m.Called()
}

func (m *MockSink) ShowError(err error) {
	m.Called(err)
}

// recordingSink captures sink calls for inspection from the test goroutine.
type recordingSink struct {
	mu      sync.Mutex
	records []gps.Record
	waiting int
	errs    []error
}

func (r *recordingSink) ShowRecord(record gps.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

func (r *recordingSink) ShowWaiting() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waiting++
}

func (r *recordingSink) ShowError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingSink) Records() []gps.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]gps.Record, len(r.records))
	copy(out, r.records)
	return out
}

func (r *recordingSink) Waiting() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waiting
}

func (r *recordingSink) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}
