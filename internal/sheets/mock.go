package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/moti-registry/internal/model"
)

// MockStore is an in-memory Tabular Store for testing.
type MockStore struct {
	ReadFunc   func(ctx context.Context) (model.Table, error)
	WriteFunc  func(ctx context.Context, table model.Table) error
	Table      model.Table
	WriteCalls []model.Table
	ReadCount  int
	mu         sync.Mutex
}

// NewMockStore creates a mock store holding a copy of table.
func NewMockStore(table model.Table) *MockStore {
	return &MockStore{
		Table:      table.Clone(),
		WriteCalls: make([]model.Table, 0),
	}
}

// Read implements the Tabular Store read.
func (m *MockStore) Read(ctx context.Context) (model.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReadCount++
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx)
	}
	return m.Table.Clone(), nil
}

// Write implements the Tabular Store write.
func (m *MockStore) Write(ctx context.Context, table model.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteFunc != nil {
		if err := m.WriteFunc(ctx, table); err != nil {
			return err
		}
	}

	m.WriteCalls = append(m.WriteCalls, table.Clone())
	m.Table = table.Clone()
	return nil
}

// SetReadError configures the mock to fail every Read with err.
func (m *MockStore) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReadFunc = func(context.Context) (model.Table, error) {
		return nil, err
	}
}

// SetWriteError configures the mock to fail every Write with err.
func (m *MockStore) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, model.Table) error {
		return err
	}
}

// Snapshot returns a copy of the current table.
func (m *MockStore) Snapshot() model.Table {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Table.Clone()
}

// WriteCount returns how many successful writes were recorded.
func (m *MockStore) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.WriteCalls)
}

// AssertWriteCalled verifies that Write succeeded the expected number of times.
func (m *MockStore) AssertWriteCalled(t interface{ Fatalf(string, ...any) }, expectedCalls int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.WriteCalls) != expectedCalls {
		t.Fatalf("expected Write to be called %d times, but was called %d times", expectedCalls, len(m.WriteCalls))
	}
}
