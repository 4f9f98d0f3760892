package pgsql

import (
	portsrepo "github.com/SscSPs/mma_daily_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:      newPgxCurrencyRepository(dbPool),
		ExchangeRateRepo:  newPgxExchangeRateRepository(dbPool),
		RecurringItemRepo: newPgxRecurringItemRepository(dbPool),
		TransactionRepo:   newPgxTransactionRepository(dbPool),
		OwnerRepo:         newPgxOwnerRepository(dbPool),
	}
}
