package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/rl1809/stock-catalog/internal/core/domain"
	"github.com/rl1809/stock-catalog/internal/metrics"
	"github.com/rl1809/stock-catalog/internal/port"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateRequest = errors.New("duplicate request")
)

const maxUpdateRetries = 3

// ImportResult counts what a batch of record lines produced.
type ImportResult struct {
	Loaded   int                `json:"loaded"`
	Rejected []domain.Rejection `json:"rejected,omitempty"`
}

type CatalogService struct {
	repo    port.RecordRepository
	cache   port.CacheRepository
	file    port.RecordFile
	metrics *metrics.Metrics
}

// NewCatalogService wires the catalog. file and m may be nil.
func NewCatalogService(repo port.RecordRepository, cache port.CacheRepository, file port.RecordFile, m *metrics.Metrics) *CatalogService {
	return &CatalogService{
		repo:    repo,
		cache:   cache,
		file:    file,
		metrics: m,
	}
}

// Import decodes machine records from r and upserts them by sku. Lines that
// do not decode are skipped and reported in the result.
func (s *CatalogService) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	items, rejected, err := domain.DecodeRecords(r)
	if err != nil {
		return ImportResult{}, err
	}
	return s.apply(ctx, metrics.SourceImport, items, rejected)
}

// Restore loads the record file into the repository.
func (s *CatalogService) Restore(ctx context.Context) (ImportResult, error) {
	if s.file == nil {
		return ImportResult{}, nil
	}
	items, rejected, err := s.file.Load(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("load record file: %w", err)
	}
	return s.apply(ctx, metrics.SourceFile, items, rejected)
}

func (s *CatalogService) apply(ctx context.Context, source string, items []domain.Item, rejected []domain.Rejection) (ImportResult, error) {
	result := ImportResult{Rejected: rejected}
	for _, rej := range rejected {
		log.Printf("%s: skipped %s", source, rej)
		s.metrics.RecordRejected(source)
	}

	for _, item := range items {
		if err := s.upsert(ctx, item); err != nil {
			return result, fmt.Errorf("save %q: %w", item.SKU(), err)
		}
		s.invalidate(ctx, item.SKU())
		s.metrics.RecordLoaded(source, item.Type())
		result.Loaded++
	}

	return result, nil
}

func (s *CatalogService) upsert(ctx context.Context, item domain.Item) error {
	var err error
	for i := 0; i < maxUpdateRetries; i++ {
		var rec *port.StoredRecord
		rec, err = s.repo.GetRecord(ctx, item.SKU())
		if err != nil {
			return err
		}

		if rec == nil {
			err = s.repo.CreateRecord(ctx, item)
			if errors.Is(err, port.ErrRecordExists) {
				continue
			}
			return err
		}

		rec.Item = item
		err = s.repo.UpdateRecord(ctx, *rec)
		if !errors.Is(err, port.ErrOptimisticLock) {
			return err
		}
	}
	return err
}

// Export writes every record line ordered by sku.
func (s *CatalogService) Export(ctx context.Context, w io.Writer) error {
	items, err := s.items(ctx)
	if err != nil {
		return err
	}
	return domain.EncodeRecords(w, items)
}

// Snapshot rewrites the record file from the repository.
func (s *CatalogService) Snapshot(ctx context.Context) error {
	if s.file == nil {
		return nil
	}
	items, err := s.items(ctx)
	if err != nil {
		return err
	}
	return s.file.Save(ctx, items)
}

func (s *CatalogService) items(ctx context.Context) ([]domain.Item, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	items := make([]domain.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.Item)
	}
	return items, nil
}

// Register parses a labelled entry for a record of the given type tag and
// adds it to the catalog. A rejected entry is returned together with the
// error so its message can be shown.
func (s *CatalogService) Register(ctx context.Context, tag byte, r io.Reader) (domain.Item, error) {
	item, err := domain.NewItem(tag)
	if err != nil {
		return nil, err
	}

	if err := item.Read(domain.NewFieldReader(r)); err != nil {
		s.metrics.RecordRejected(metrics.SourceRegister)
		return item, err
	}

	if err := s.repo.CreateRecord(ctx, item); err != nil {
		return item, err
	}
	s.journal(ctx, item)
	s.metrics.RecordLoaded(metrics.SourceRegister, item.Type())

	return item, nil
}

// Get returns the record for sku, from the cache when possible.
func (s *CatalogService) Get(ctx context.Context, sku string) (domain.Item, error) {
	item, ok, err := s.cache.CachedRecord(ctx, sku)
	if err != nil {
		log.Printf("cache lookup %s: %v", sku, err)
	}
	if ok {
		return item, nil
	}

	rec, err := s.repo.GetRecord(ctx, sku)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	if err := s.cache.CacheRecord(ctx, rec.Item); err != nil {
		log.Printf("cache fill %s: %v", sku, err)
	}
	return rec.Item, nil
}

// Receive adds a delivered quantity to the stock on hand. A request id is
// applied at most once.
func (s *CatalogService) Receive(ctx context.Context, requestID, sku string, quantity int) (domain.Item, error) {
	ok, err := s.cache.SetIdempotency(ctx, "receipt:"+requestID)
	if err != nil {
		s.metrics.Receipt(metrics.StatusError)
		return nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		s.metrics.Receipt(metrics.StatusDuplicate)
		return nil, ErrDuplicateRequest
	}

	for i := 0; i < maxUpdateRetries; i++ {
		rec, err := s.repo.GetRecord(ctx, sku)
		if err != nil {
			s.metrics.Receipt(metrics.StatusError)
			return nil, err
		}
		if rec == nil {
			s.metrics.Receipt(metrics.StatusError)
			return nil, ErrNotFound
		}

		rec.Item.AddQuantity(quantity)
		err = s.repo.UpdateRecord(ctx, *rec)
		if errors.Is(err, port.ErrOptimisticLock) {
			s.metrics.Receipt(metrics.StatusConflict)
			continue
		}
		if err != nil {
			s.metrics.Receipt(metrics.StatusError)
			return nil, err
		}

		s.invalidate(ctx, sku)
		s.journal(ctx, rec.Item)
		s.metrics.Receipt(metrics.StatusApplied)
		return rec.Item, nil
	}

	return nil, port.ErrOptimisticLock
}

// Render writes the tabular or verbose report of one record.
func (s *CatalogService) Render(ctx context.Context, sku string, w io.Writer, verbose bool) error {
	item, err := s.Get(ctx, sku)
	if err != nil {
		return err
	}
	if verbose {
		return item.RenderVerbose(w)
	}
	return item.RenderTabular(w)
}

// Report writes one tabular row per record.
func (s *CatalogService) Report(ctx context.Context, w io.Writer) error {
	items, err := s.items(ctx)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := item.RenderTabular(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, sku string) {
	if err := s.cache.InvalidateRecord(ctx, sku); err != nil {
		log.Printf("cache invalidate %s: %v", sku, err)
	}
}

func (s *CatalogService) journal(ctx context.Context, item domain.Item) {
	if s.file == nil {
		return
	}
	if err := s.file.Append(ctx, item); err != nil {
		log.Printf("journal %s: %v", item.SKU(), err)
	}
}
