package mapping

import (
	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	"github.com/SscSPs/mma_daily_engine/internal/models"
	"github.com/SscSPs/mma_daily_engine/internal/utils/calendar"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate.
// The rate date is truncated to its calendar date.
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		BaseCurrencyID:  d.BaseCurrencyID,
		QuoteCurrencyID: d.QuoteCurrencyID,
		RateDate:        calendar.DateOf(d.RateDate),
		Rate:            d.Rate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		BaseCurrencyID:  m.BaseCurrencyID,
		QuoteCurrencyID: m.QuoteCurrencyID,
		RateDate:        calendar.DateOf(m.RateDate),
		Rate:            m.Rate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
