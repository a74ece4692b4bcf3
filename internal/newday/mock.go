package newday

import (
	"context"
	"fmt"
	"sync"

	"allinone-backend/internal/auth"
)

// MockClient serves canned snapshots when no partner URL is configured,
// so dev mode and tests can run a full sync loop without New Day being
// reachable.
type MockClient struct {
	mu        sync.RWMutex
	snapshots map[int64]*Snapshot
	failNext  bool
}

func NewMockClient() *MockClient {
	return &MockClient{snapshots: make(map[int64]*Snapshot)}
}

// SetSnapshot installs the snapshot returned for a user's partner token.
func (m *MockClient) SetSnapshot(userID int64, snapshot *Snapshot) {
	m.mu.Lock()
	m.snapshots[userID] = snapshot
	m.mu.Unlock()
}

// FailNext makes the next FetchSnapshot report an upstream failure.
func (m *MockClient) FailNext() {
	m.mu.Lock()
	m.failNext = true
	m.mu.Unlock()
}

func (m *MockClient) ExchangeToken(_ context.Context, userID int64) (string, error) {
	return fmt.Sprintf("user-%d_mock", userID), nil
}

func (m *MockClient) FetchSnapshot(_ context.Context, partnerToken string) (*Snapshot, error) {
	m.mu.Lock()
	if m.failNext {
		m.failNext = false
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: mock failure", ErrUpstreamUnavailable)
	}
	m.mu.Unlock()

	userID := auth.ParsePartnerToken(partnerToken)

	m.mu.RLock()
	defer m.mu.RUnlock()
	if snapshot, ok := m.snapshots[userID]; ok {
		copied := *snapshot
		copied.Items = append([]SnapshotItem(nil), snapshot.Items...)
		return &copied, nil
	}
	return &Snapshot{Balance: 0, Items: []SnapshotItem{}}, nil
}
