package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/garyjia/lic-claimdesk/internal/application/dispatcher"
	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/application/state"
)

type memRecords struct {
	data map[string]map[string][]byte
}

func newMemRecords() *memRecords {
	return &memRecords{data: map[string]map[string][]byte{}}
}

func (m *memRecords) Get(_ context.Context, partition, key string) (*port.Record, error) {
	v, ok := m.data[partition][key]
	if !ok {
		return nil, nil
	}
	return &port.Record{Partition: partition, Key: key, Value: v}, nil
}

func (m *memRecords) Put(_ context.Context, partition, key string, value []byte) error {
	if m.data[partition] == nil {
		m.data[partition] = map[string][]byte{}
	}
	m.data[partition][key] = value
	return nil
}

func (m *memRecords) Delete(_ context.Context, partition, key string) error {
	delete(m.data[partition], key)
	return nil
}

func (m *memRecords) List(_ context.Context, partition string) ([]*port.Record, error) {
	var out []*port.Record
	for k, v := range m.data[partition] {
		out = append(out, &port.Record{Partition: partition, Key: k, Value: v, UpdatedAt: time.Unix(0, 0)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memRecords) Count(_ context.Context, partition string) (int, error) {
	return len(m.data[partition]), nil
}

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockWorkbookWriter struct {
	writeFunc func(ctx context.Context, sheets []port.Sheet) ([]byte, error)
}

func (m *mockWorkbookWriter) Write(ctx context.Context, sheets []port.Sheet) ([]byte, error) {
	if m.writeFunc != nil {
		return m.writeFunc(ctx, sheets)
	}
	return []byte("xlsx"), nil
}

type mockFileStorage struct {
	saveFunc func(ctx context.Context, path string, content []byte) error
}

func (m *mockFileStorage) Save(ctx context.Context, path string, content []byte) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, path, content)
	}
	return nil
}

func (m *mockFileStorage) Read(ctx context.Context, path string) ([]byte, error) { return nil, nil }
func (m *mockFileStorage) Exists(ctx context.Context, path string) bool          { return false }
func (m *mockFileStorage) Delete(ctx context.Context, path string) error         { return nil }
func (m *mockFileStorage) GetFullPath(relativePath string) string                { return "/exports/" + relativePath }

// newTestStore returns a loaded store over in-memory records
func newTestStore(t *testing.T, d dispatcher.Dispatcher) (*state.Store, *memRecords) {
	t.Helper()
	records := newMemRecords()
	store := state.NewStore(records, passthroughTx{}, d, nil)
	require.NoError(t, store.Load(context.Background()))
	return store, records
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
}
