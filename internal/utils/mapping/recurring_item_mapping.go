package mapping

import (
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	"github.com/SscSPs/mma_daily_engine/internal/models"
	"github.com/SscSPs/mma_daily_engine/internal/utils/calendar"
)

// ToDomainRecurringItem converts a model RecurringItem to a domain RecurringItem
func ToDomainRecurringItem(m models.RecurringItem) domain.RecurringItem {
	return domain.RecurringItem{
		RecurringItemID:      m.RecurringItemID,
		OwnerID:              m.OwnerID,
		Name:                 m.Name,
		Type:                 domain.FlowType(m.Type),
		Amount:               m.Amount,
		CurrencyID:           m.CurrencyID,
		Category:             m.Category,
		StartDate:            calendar.DateOf(m.StartDate),
		EndDate:              datePtr(m.EndDate),
		FrequencyUnit:        domain.FrequencyUnit(m.FrequencyUnit),
		FrequencyInterval:    m.FrequencyInterval,
		IsActive:             m.IsActive,
		LastMaterializedDate: datePtr(m.LastMaterializedDate),
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRecurringItemSlice converts a slice of model RecurringItems to domain RecurringItems
func ToDomainRecurringItemSlice(ms []models.RecurringItem) []domain.RecurringItem {
	ds := make([]domain.RecurringItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRecurringItem(m)
	}
	return ds
}

func datePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := calendar.DateOf(*t)
	return &d
}
