package service

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
)

// mockTables is an in-memory TableStore with compare-and-swap versioning,
// so the services' conflict handling can be exercised without a network.
// Function fields override behavior per test; call counts are tracked for
// assertions.
type mockTables struct {
	mu       sync.Mutex
	data     map[string][]byte
	versions map[string]int

	// storeFn, when set, intercepts Store entirely.
	storeFn func(ctx context.Context, table string, in any, version, message string) (string, error)

	loadCalls  int
	storeCalls int
}

func newMockTables() *mockTables {
	return &mockTables{
		data:     map[string][]byte{},
		versions: map[string]int{},
	}
}

func (m *mockTables) Load(_ context.Context, table string, out any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls++

	raw, ok := m.data[table]
	if !ok {
		return "", nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return "", err
	}
	return strconv.Itoa(m.versions[table]), nil
}

func (m *mockTables) Store(ctx context.Context, table string, in any, version, message string) (string, error) {
	m.mu.Lock()
	m.storeCalls++
	fn := m.storeFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, table, in, version, message)
	}
	return m.put(table, in)
}

func (m *mockTables) put(table string, in any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	m.data[table] = raw
	m.versions[table]++
	return strconv.Itoa(m.versions[table]), nil
}

// seed writes a table directly, bypassing call counters.
func (m *mockTables) seed(t *testing.T, table string, in any) {
	t.Helper()
	if _, err := m.put(table, in); err != nil {
		t.Fatalf("seed %s: %v", table, err)
	}
}

// rawTable returns the stored bytes for before/after comparisons.
func (m *mockTables) rawTable(table string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data[table]...)
}
