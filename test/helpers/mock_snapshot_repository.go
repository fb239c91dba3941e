package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
)

// MockSnapshotRepository is an in-memory SnapshotRepository for testing
type MockSnapshotRepository struct {
	mu        sync.Mutex
	Snapshots map[string]*processing.Snapshot // key: unit_id
	SaveErr   error
	Saves     int
}

// NewMockSnapshotRepository creates a new mock snapshot repository
func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{
		Snapshots: make(map[string]*processing.Snapshot),
	}
}

// Save stores the snapshot (in-memory only for testing)
func (m *MockSnapshotRepository) Save(ctx context.Context, snapshot *processing.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	m.Snapshots[snapshot.UnitID] = snapshot
	return nil
}

// FindByUnitID returns the stored snapshot or a NotFoundError
func (m *MockSnapshotRepository) FindByUnitID(ctx context.Context, unitID string) (*processing.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot, ok := m.Snapshots[unitID]
	if !ok {
		return nil, shared.NewNotFoundError("snapshot", unitID)
	}
	return snapshot, nil
}

// Delete removes the stored snapshot
func (m *MockSnapshotRepository) Delete(ctx context.Context, unitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Snapshots, unitID)
	return nil
}

var _ processing.SnapshotRepository = (*MockSnapshotRepository)(nil)
