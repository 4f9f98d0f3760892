package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validItem() domain.RecurringItem {
	return domain.RecurringItem{
		RecurringItemID:   1,
		OwnerID:           10,
		Name:              "Rent",
		Type:              domain.Expense,
		Amount:            decimal.NewFromInt(450),
		CurrencyID:        1,
		StartDate:         time.Date(2024, 10, 12, 0, 0, 0, 0, time.UTC),
		FrequencyUnit:     domain.Month,
		FrequencyInterval: 1,
		IsActive:          true,
	}
}

func TestRecurringItem_Validate(t *testing.T) {
	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*domain.RecurringItem)
		wantErr string
	}{
		{name: "valid", mutate: func(*domain.RecurringItem) {}},
		{name: "zero interval", mutate: func(i *domain.RecurringItem) { i.FrequencyInterval = 0 }, wantErr: "FrequencyInterval"},
		{name: "unknown unit", mutate: func(i *domain.RecurringItem) { i.FrequencyUnit = "fortnight" }, wantErr: "FrequencyUnit"},
		{name: "unknown type", mutate: func(i *domain.RecurringItem) { i.Type = "transfer" }, wantErr: "Type"},
		{name: "zero amount", mutate: func(i *domain.RecurringItem) { i.Amount = decimal.Zero }, wantErr: "amount must be positive"},
		{name: "negative amount", mutate: func(i *domain.RecurringItem) { i.Amount = decimal.NewFromInt(-1) }, wantErr: "amount must be positive"},
		{name: "missing start", mutate: func(i *domain.RecurringItem) { i.StartDate = time.Time{} }, wantErr: "StartDate"},
		{name: "end before start", mutate: func(i *domain.RecurringItem) { i.EndDate = &before }, wantErr: "before start date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)
			err := item.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExchangeRate_Validate(t *testing.T) {
	valid := domain.ExchangeRate{
		BaseCurrencyID:  1,
		QuoteCurrencyID: 2,
		RateDate:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Rate:            decimal.RequireFromString("0.93"),
	}
	assert.NoError(t, valid.Validate())

	samePair := valid
	samePair.QuoteCurrencyID = 1
	assert.Error(t, samePair.Validate())

	zero := valid
	zero.Rate = decimal.Zero
	assert.ErrorContains(t, zero.Validate(), "rate must be positive")

	undated := valid
	undated.RateDate = time.Time{}
	assert.Error(t, undated.Validate())
}
