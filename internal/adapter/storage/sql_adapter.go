package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/stock-catalog/internal/core/domain"
	"github.com/rl1809/stock-catalog/internal/port"
)

// The statements stick to syntax shared by MySQL and SQLite.
const createRecordsTable = `
CREATE TABLE IF NOT EXISTS catalog_records (
	id         VARCHAR(36) NOT NULL PRIMARY KEY,
	sku        VARCHAR(7)  NOT NULL UNIQUE,
	kind       CHAR(1)     NOT NULL,
	record     TEXT        NOT NULL,
	version    INTEGER     NOT NULL DEFAULT 0,
	created_at TIMESTAMP   NOT NULL,
	updated_at TIMESTAMP   NOT NULL
)`

// SQLAdapter keeps one machine record line per row.
type SQLAdapter struct {
	db *sql.DB
}

func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (s *SQLAdapter) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createRecordsTable); err != nil {
		return fmt.Errorf("create catalog_records: %w", err)
	}
	return nil
}

func (s *SQLAdapter) CreateRecord(ctx context.Context, item domain.Item) error {
	line, err := domain.MarshalRecord(item)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_records WHERE sku = ?`, item.SKU()).Scan(&count)
	if err != nil {
		return fmt.Errorf("query record: %w", err)
	}
	if count > 0 {
		return port.ErrRecordExists
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO catalog_records (id, sku, kind, record, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)`,
		uuid.NewString(), item.SKU(), string(item.Type()), line, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	return tx.Commit()
}

func (s *SQLAdapter) GetRecord(ctx context.Context, sku string) (*port.StoredRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, record, version
		FROM catalog_records WHERE sku = ?`, sku,
	)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SQLAdapter) UpdateRecord(ctx context.Context, rec port.StoredRecord) error {
	line, err := domain.MarshalRecord(rec.Item)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE catalog_records
		SET kind = ?, record = ?, version = version + 1, updated_at = ?
		WHERE sku = ? AND version = ?`,
		string(rec.Item.Type()), line, time.Now().UTC(), rec.Item.SKU(), rec.Version,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return port.ErrOptimisticLock
	}

	return nil
}

func (s *SQLAdapter) ListRecords(ctx context.Context) ([]port.StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record, version
		FROM catalog_records ORDER BY sku`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []port.StoredRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

func (s *SQLAdapter) DeleteRecord(ctx context.Context, sku string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM catalog_records WHERE sku = ?`, sku); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*port.StoredRecord, error) {
	var (
		rec  port.StoredRecord
		line string
	)
	if err := row.Scan(&rec.ID, &line, &rec.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}

	item, err := domain.UnmarshalRecord(line)
	if err != nil {
		return nil, fmt.Errorf("decode record %s: %w", rec.ID, err)
	}
	rec.Item = item
	return &rec, nil
}
