package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_daily_engine/internal/core/ports/repositories"
	"github.com/SscSPs/mma_daily_engine/internal/models"
	"github.com/SscSPs/mma_daily_engine/internal/utils/calendar"
	"github.com/SscSPs/mma_daily_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// FindRecurringOccurrence retrieves the transaction materializing (item, occurrence date).
func (r *PgxTransactionRepository) FindRecurringOccurrence(ctx context.Context, recurringItemID int64, occurrenceDate time.Time) (*domain.Transaction, error) {
	query := `
		SELECT transaction_id::text, owner_id, type, amount, currency_id, date, category, description, source,
			recurring_item_id, occurrence_date, original_amount, original_currency_id, exchange_rate,
			created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
		WHERE source = 'recurring' AND recurring_item_id = $1 AND occurrence_date = $2;
	`
	var m models.Transaction
	err := r.Pool.QueryRow(ctx, query, recurringItemID, calendar.DateOf(occurrenceDate)).Scan(
		&m.TransactionID, &m.OwnerID, &m.Type, &m.Amount, &m.CurrencyID, &m.Date, &m.Category, &m.Description, &m.Source,
		&m.RecurringItemID, &m.OccurrenceDate, &m.OriginalAmount, &m.OriginalCurrencyID, &m.ExchangeRate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, notFoundOr(err, "failed to find recurring occurrence")
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}
