package mapping

import (
	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	"github.com/SscSPs/mma_daily_engine/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:      d.TransactionID,
		OwnerID:            d.OwnerID,
		Type:               string(d.Type),
		Amount:             d.Amount,
		CurrencyID:         d.CurrencyID,
		Date:               d.Date,
		Category:           d.Category,
		Description:        d.Description,
		Source:             string(d.Source),
		RecurringItemID:    d.RecurringItemID,
		OccurrenceDate:     datePtr(d.OccurrenceDate),
		OriginalAmount:     d.OriginalAmount,
		OriginalCurrencyID: d.OriginalCurrencyID,
		ExchangeRate:       d.ExchangeRate,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:      m.TransactionID,
		OwnerID:            m.OwnerID,
		Type:               domain.FlowType(m.Type),
		Amount:             m.Amount,
		CurrencyID:         m.CurrencyID,
		Date:               m.Date,
		Category:           m.Category,
		Description:        m.Description,
		Source:             domain.TransactionSource(m.Source),
		RecurringItemID:    m.RecurringItemID,
		OccurrenceDate:     datePtr(m.OccurrenceDate),
		OriginalAmount:     m.OriginalAmount,
		OriginalCurrencyID: m.OriginalCurrencyID,
		ExchangeRate:       m.ExchangeRate,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
