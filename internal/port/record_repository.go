package port

import (
	"context"
	"errors"

	"github.com/rl1809/stock-catalog/internal/core/domain"
)

var (
	ErrRecordExists   = errors.New("record already exists")
	ErrOptimisticLock = errors.New("optimistic lock conflict")
)

// StoredRecord is an item as kept by a repository.
type StoredRecord struct {
	ID      string
	Item    domain.Item
	Version int // optimistic locking
}

type RecordRepository interface {
	// CreateRecord persists a new item, failing with ErrRecordExists if its sku is taken
	CreateRecord(ctx context.Context, item domain.Item) error

	// GetRecord retrieves a record by sku, nil if there is none
	GetRecord(ctx context.Context, sku string) (*StoredRecord, error)

	// UpdateRecord replaces the item with a version check for optimistic locking
	UpdateRecord(ctx context.Context, rec StoredRecord) error

	// ListRecords returns every record ordered by sku
	ListRecords(ctx context.Context) ([]StoredRecord, error)

	DeleteRecord(ctx context.Context, sku string) error
}
