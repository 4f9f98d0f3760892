package pgsql

import (
	"context"

	"github.com/SscSPs/mma_daily_engine/internal/apperrors"
	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_daily_engine/internal/core/ports/repositories"
	"github.com/SscSPs/mma_daily_engine/internal/models"
	"github.com/SscSPs/mma_daily_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOwnerRepository struct {
	BaseRepository
}

func newPgxOwnerRepository(pool *pgxpool.Pool) portsrepo.OwnerRepositoryFacade {
	return &PgxOwnerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OwnerRepositoryFacade = (*PgxOwnerRepository)(nil)

func scanOwner(row pgx.Row) (models.Owner, error) {
	var o models.Owner
	err := row.Scan(&o.OwnerID, &o.SettlementCurrencyID, &o.IsActive)
	return o, err
}

// ListActiveOwners retrieves every active owner ordered by ID.
func (r *PgxOwnerRepository) ListActiveOwners(ctx context.Context) ([]domain.Owner, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT owner_id, settlement_currency_id, is_active
		FROM owners
		WHERE is_active
		ORDER BY owner_id;
	`)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to query owners", err)
	}
	defer rows.Close()

	owners, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Owner, error) {
		m, err := scanOwner(row)
		return mapping.ToDomainOwner(m), err
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to scan owners", err)
	}
	return owners, nil
}

// FindOwnerByID retrieves one owner regardless of its active flag.
func (r *PgxOwnerRepository) FindOwnerByID(ctx context.Context, ownerID int64) (*domain.Owner, error) {
	m, err := scanOwner(r.Pool.QueryRow(ctx, `
		SELECT owner_id, settlement_currency_id, is_active
		FROM owners
		WHERE owner_id = $1;
	`, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "failed to find owner")
	}
	owner := mapping.ToDomainOwner(m)
	return &owner, nil
}
