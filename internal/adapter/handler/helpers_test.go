package handler

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/rl1809/stock-catalog/internal/adapter/storage"
	"github.com/rl1809/stock-catalog/internal/core/domain"
	"github.com/rl1809/stock-catalog/internal/core/service"
)

// memoryCache is an in-process stand-in for the Redis adapter.
type memoryCache struct {
	lines map[string]string
	keys  map[string]bool
	mu    sync.Mutex
}

func newMemoryCache() *memoryCache {
	return &memoryCache{lines: make(map[string]string), keys: make(map[string]bool)}
}

func (m *memoryCache) CacheRecord(ctx context.Context, item domain.Item) error {
	line, err := domain.MarshalRecord(item)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines[item.SKU()] = line
	return nil
}

func (m *memoryCache) CachedRecord(ctx context.Context, sku string) (domain.Item, bool, error) {
	m.mu.Lock()
	line, ok := m.lines[sku]
	m.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	item, err := domain.UnmarshalRecord(line)
	return item, err == nil, err
}

func (m *memoryCache) InvalidateRecord(ctx context.Context, sku string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, sku)
	return nil
}

func (m *memoryCache) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

const seedRecords = "N,B100,Bolts,box,1,0.5,20,40\n" +
	"P,M200,Milk,litre,0,2,12,30,2024/02/28\n"

func newTestCatalog(t *testing.T) *service.CatalogService {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	repo := storage.NewSQLAdapter(db)
	require.NoError(t, repo.Migrate(context.Background()))

	catalog := service.NewCatalogService(repo, newMemoryCache(), nil, nil)
	_, err = catalog.Import(context.Background(), strings.NewReader(seedRecords))
	require.NoError(t, err)
	return catalog
}
