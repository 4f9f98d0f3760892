package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/apperrors"
	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_daily_engine/internal/core/ports/repositories"
	"github.com/SscSPs/mma_daily_engine/internal/models"
	"github.com/SscSPs/mma_daily_engine/internal/utils/calendar"
	"github.com/SscSPs/mma_daily_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRecurringItemRepository stores recurring items and materializes their occurrences.
type PgxRecurringItemRepository struct {
	BaseRepository
}

func newPgxRecurringItemRepository(pool *pgxpool.Pool) portsrepo.RecurringItemRepositoryFacade {
	return &PgxRecurringItemRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RecurringItemRepositoryFacade = (*PgxRecurringItemRepository)(nil)

// ListActiveRecurringItemsByOwner retrieves the active items of an owner ordered by ID.
func (r *PgxRecurringItemRepository) ListActiveRecurringItemsByOwner(ctx context.Context, ownerID int64) ([]domain.RecurringItem, error) {
	query := `
		SELECT recurring_item_id, owner_id, name, type, amount, currency_id, category,
			start_date, end_date, frequency_unit, frequency_interval, is_active, last_materialized_date,
			created_at, created_by, last_updated_at, last_updated_by
		FROM recurring_items
		WHERE owner_id = $1 AND is_active
		ORDER BY recurring_item_id;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to query recurring items", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RecurringItem, error) {
		var m models.RecurringItem
		err := row.Scan(
			&m.RecurringItemID, &m.OwnerID, &m.Name, &m.Type, &m.Amount, &m.CurrencyID, &m.Category,
			&m.StartDate, &m.EndDate, &m.FrequencyUnit, &m.FrequencyInterval, &m.IsActive, &m.LastMaterializedDate,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		return m, err
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to scan recurring items", err)
	}
	return mapping.ToDomainRecurringItemSlice(items), nil
}

// SaveOccurrence inserts the occurrence transaction and moves the cursor in one database
// transaction. The item row is locked first so concurrent runs for the same item serialize.
func (r *PgxRecurringItemRepository) SaveOccurrence(ctx context.Context, txn domain.Transaction) error {
	if txn.RecurringItemID == nil || txn.OccurrenceDate == nil {
		return apperrors.NewValidationError("occurrence transaction must reference a recurring item and date")
	}
	m := mapping.ToModelTransaction(txn)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var locked int64
	err = tx.QueryRow(ctx,
		`SELECT recurring_item_id FROM recurring_items WHERE recurring_item_id = $1 FOR UPDATE;`,
		*m.RecurringItemID,
	).Scan(&locked)
	if err != nil {
		return notFoundOr(err, "failed to lock recurring item")
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO transactions (
			transaction_id, owner_id, type, amount, currency_id, date, category, description, source,
			recurring_item_id, occurrence_date, original_amount, original_currency_id, exchange_rate,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (recurring_item_id, occurrence_date) WHERE source = 'recurring' DO NOTHING;`,
		m.TransactionID, m.OwnerID, m.Type, m.Amount, m.CurrencyID, m.Date, m.Category, m.Description, m.Source,
		m.RecurringItemID, m.OccurrenceDate, m.OriginalAmount, m.OriginalCurrencyID, m.ExchangeRate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewPersistenceError("failed to insert occurrence transaction", err)
	}
	inserted := tag.RowsAffected() == 1

	if err := advanceCursor(ctx, tx, *m.RecurringItemID, *m.OccurrenceDate, m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
		return err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return err
	}

	if !inserted {
		return apperrors.ErrMaterializationConflict
	}
	return nil
}

// AdvanceCursor moves last_materialized_date forward to date, never back.
func (r *PgxRecurringItemRepository) AdvanceCursor(ctx context.Context, recurringItemID int64, date time.Time) error {
	return advanceCursor(ctx, r.Pool, recurringItemID, calendar.DateOf(date), time.Now().UTC(), domain.SystemActor)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func advanceCursor(ctx context.Context, db execer, recurringItemID int64, date, at time.Time, actor string) error {
	_, err := db.Exec(ctx, `
		UPDATE recurring_items
		SET last_materialized_date = GREATEST(COALESCE(last_materialized_date, $2), $2),
			last_updated_at = $3,
			last_updated_by = $4
		WHERE recurring_item_id = $1;`,
		recurringItemID, date, at, actor,
	)
	if err != nil {
		return apperrors.NewPersistenceError("failed to advance recurring item cursor", err)
	}
	return nil
}

// DeactivateRecurringItem soft-deactivates an item.
func (r *PgxRecurringItemRepository) DeactivateRecurringItem(ctx context.Context, recurringItemID int64, actor string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE recurring_items
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE recurring_item_id = $1;`,
		recurringItemID, time.Now().UTC(), actor,
	)
	if err != nil {
		return apperrors.NewPersistenceError("failed to deactivate recurring item", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring item not found")
	}
	return nil
}
