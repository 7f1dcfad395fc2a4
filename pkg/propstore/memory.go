package propstore

import (
	"context"
	"fmt"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Memory is an in-process property store. It bridges the host and guest
// halves when both run in one process (demo mode) and stands in for the
// hypervisor tree in tests. Safe for concurrent use.
type Memory struct {
	props cmap.ConcurrentMap[string, string]
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{props: cmap.New[string]()}
}

// Set stores value under key, replacing any previous value.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.props.Set(key, value)
	return nil
}

// Get returns the value under key, or ErrNotFound if none was ever set.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	value, ok := m.props.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return value, nil
}

// Probe reports the store as always reachable; the tree lives in process
// memory.
func (m *Memory) Probe(_ context.Context) error {
	return nil
}
