package mocks

import (
	"context"
	"time"
)

// MockDistributedLock is a mock implementation of DistributedLock for testing
type MockDistributedLock struct {
	held     map[string]bool
	denyNext bool
	err      error
	releases []string
}

// NewMockDistributedLock creates a new MockDistributedLock
func NewMockDistributedLock() *MockDistributedLock {
	return &MockDistributedLock{
		held: make(map[string]bool),
	}
}

func (m *MockDistributedLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.denyNext {
		m.denyNext = false
		return false, nil
	}
	if m.held[name] {
		return false, nil
	}
	m.held[name] = true
	return true, nil
}

func (m *MockDistributedLock) Release(ctx context.Context, name string) error {
	delete(m.held, name)
	m.releases = append(m.releases, name)
	return nil
}

// Helper methods for testing

func (m *MockDistributedLock) SetDenyNext() {
	m.denyNext = true
}

func (m *MockDistributedLock) SetError(err error) {
	m.err = err
}

func (m *MockDistributedLock) Releases() []string {
	return m.releases
}
