package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
)

// RecurringItemReader defines read operations for recurring items
type RecurringItemReader interface {
	// ListActiveRecurringItemsByOwner retrieves the active items of an owner, ordered by ID.
	ListActiveRecurringItemsByOwner(ctx context.Context, ownerID int64) ([]domain.RecurringItem, error)
}

// RecurringItemWriter defines write operations for recurring items
type RecurringItemWriter interface {
	// SaveOccurrence atomically inserts the transaction materializing one occurrence and
	// moves the item's cursor to that occurrence. It returns apperrors.ErrMaterializationConflict
	// when a transaction already exists for the occurrence.
	SaveOccurrence(ctx context.Context, txn domain.Transaction) error

	// AdvanceCursor moves last_materialized_date forward to date. It never moves it back.
	AdvanceCursor(ctx context.Context, recurringItemID int64, date time.Time) error

	// DeactivateRecurringItem soft-deactivates an item.
	DeactivateRecurringItem(ctx context.Context, recurringItemID int64, actor string) error
}

// RecurringItemRepositoryFacade combines all recurring item repository interfaces
type RecurringItemRepositoryFacade interface {
	RecurringItemReader
	RecurringItemWriter
}
