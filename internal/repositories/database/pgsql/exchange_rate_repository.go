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
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRepository implements the exchange rate store using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const exchangeRateColumns = `base_currency_id, quote_currency_id, rate_date, rate,
	created_at, created_by, last_updated_at, last_updated_by`

func scanExchangeRate(row pgx.Row) (models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.BaseCurrencyID, &m.QuoteCurrencyID, &m.RateDate, &m.Rate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// FindRateOnDate retrieves the rate stored for exactly (base, quote, date).
func (r *PgxExchangeRateRepository) FindRateOnDate(ctx context.Context, baseCurrencyID, quoteCurrencyID int64, date time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE base_currency_id = $1 AND quote_currency_id = $2 AND rate_date = $3;
	`
	m, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, baseCurrencyID, quoteCurrencyID, calendar.DateOf(date)))
	if err != nil {
		return nil, notFoundOr(err, "failed to find exchange rate")
	}
	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// FindLatestRateOnOrBefore retrieves the newest positive rate for the pair dated on or before date.
func (r *PgxExchangeRateRepository) FindLatestRateOnOrBefore(ctx context.Context, baseCurrencyID, quoteCurrencyID int64, date time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE base_currency_id = $1 AND quote_currency_id = $2 AND rate_date <= $3 AND rate > 0
		ORDER BY rate_date DESC
		LIMIT 1;
	`
	m, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, baseCurrencyID, quoteCurrencyID, calendar.DateOf(date)))
	if err != nil {
		return nil, notFoundOr(err, "failed to find latest exchange rate")
	}
	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// UpsertExchangeRate inserts the rate, replacing any row for the same pair and date.
func (r *PgxExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	if err := rate.Validate(); err != nil {
		return apperrors.NewValidationError("invalid exchange rate: " + err.Error())
	}

	m := mapping.ToModelExchangeRate(rate)
	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (base_currency_id, quote_currency_id, rate_date) DO UPDATE SET
			rate = EXCLUDED.rate,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BaseCurrencyID, m.QuoteCurrencyID, m.RateDate, m.Rate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewPersistenceError("failed to upsert exchange rate", err)
	}
	return nil
}
