package mapping

import (
	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	"github.com/SscSPs/mma_daily_engine/internal/models"
)

// ToDomainOwner converts a model Owner to a domain Owner
func ToDomainOwner(m models.Owner) domain.Owner {
	return domain.Owner{
		OwnerID:              m.OwnerID,
		SettlementCurrencyID: m.SettlementCurrencyID,
		IsActive:             m.IsActive,
	}
}
