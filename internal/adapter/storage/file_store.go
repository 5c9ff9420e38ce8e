package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rl1809/stock-catalog/internal/core/domain"
)

// FileStore keeps records in a flat file, one machine record per line.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load returns the decodable records of the file and the lines it skipped.
// A missing file holds no records.
func (s *FileStore) Load(ctx context.Context) ([]domain.Item, []domain.Rejection, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open records file: %w", err)
	}
	defer f.Close()

	return domain.DecodeRecords(f)
}

// Save replaces the file with items.
func (s *FileStore) Save(ctx context.Context, items []domain.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create records file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := domain.EncodeRecords(tmp, items); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write records file: %w", err)
	}

	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Append(ctx context.Context, item domain.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := domain.MarshalRecord(item)
	if err != nil {
		return fmt.Errorf("store %q: %w", item.SKU(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open records file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}
