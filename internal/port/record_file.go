package port

import (
	"context"

	"github.com/rl1809/stock-catalog/internal/core/domain"
)

// RecordFile is a flat file of machine records. Later lines for a sku
// supersede earlier ones.
type RecordFile interface {
	// Load returns the decodable records and the lines that were skipped
	Load(ctx context.Context) ([]domain.Item, []domain.Rejection, error)

	// Save rewrites the whole file
	Save(ctx context.Context, items []domain.Item) error

	// Append adds one record line at the end of the file
	Append(ctx context.Context, item domain.Item) error
}
