package repositories

import (
	"context"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
)

// OwnerReader is the owner directory.
type OwnerReader interface {
	// ListActiveOwners retrieves every active owner, ordered by ID.
	ListActiveOwners(ctx context.Context) ([]domain.Owner, error)

	// FindOwnerByID retrieves one owner.
	FindOwnerByID(ctx context.Context, ownerID int64) (*domain.Owner, error)
}

// OwnerRepositoryFacade combines all owner repository interfaces
type OwnerRepositoryFacade interface {
	OwnerReader
}
