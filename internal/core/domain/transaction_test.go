package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_IsMultiCurrency(t *testing.T) {
	tests := []struct {
		name        string
		transaction domain.Transaction
		want        bool
	}{
		{
			name:        "single currency transaction",
			transaction: domain.Transaction{CurrencyID: 1},
			want:        false,
		},
		{
			name: "converted from USD to GEL",
			transaction: domain.Transaction{
				CurrencyID:         2,
				OriginalAmount:     decimalPtr(decimal.NewFromInt(100)),
				OriginalCurrencyID: int64Ptr(1),
			},
			want: true,
		},
		{
			name: "original currency equals settlement currency",
			transaction: domain.Transaction{
				CurrencyID:         1,
				OriginalAmount:     decimalPtr(decimal.NewFromInt(100)),
				OriginalCurrencyID: int64Ptr(1),
			},
			want: false,
		},
		{
			name: "missing original amount",
			transaction: domain.Transaction{
				CurrencyID:         2,
				OriginalCurrencyID: int64Ptr(1),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.transaction.IsMultiCurrency())
		})
	}
}

func TestTransaction_Validate(t *testing.T) {
	occurrence := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		tx      domain.Transaction
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid recurring transaction",
			tx: domain.Transaction{
				TransactionID:   "txn_123",
				Amount:          decimal.NewFromInt(450),
				CurrencyID:      1,
				Source:          domain.SourceRecurring,
				RecurringItemID: int64Ptr(7),
				OccurrenceDate:  &occurrence,
			},
		},
		{
			name: "recurring transaction without back-reference",
			tx: domain.Transaction{
				TransactionID: "txn_123",
				Amount:        decimal.NewFromInt(450),
				Source:        domain.SourceRecurring,
			},
			wantErr: true,
			errMsg:  "must reference their occurrence",
		},
		{
			name: "multi-currency without exchange rate",
			tx: domain.Transaction{
				TransactionID:      "txn_123",
				Amount:             decimal.NewFromInt(1200),
				CurrencyID:         2,
				Source:             domain.SourceManual,
				OriginalAmount:     decimalPtr(decimal.NewFromInt(450)),
				OriginalCurrencyID: int64Ptr(1),
			},
			wantErr: true,
			errMsg:  "exchange rate is required",
		},
		{
			name:    "missing ID",
			tx:      domain.Transaction{Amount: decimal.NewFromInt(1)},
			wantErr: true,
			errMsg:  "transaction ID is required",
		},
		{
			name: "negative amount",
			tx: domain.Transaction{
				TransactionID: "txn_123",
				Amount:        decimal.NewFromInt(-5),
			},
			wantErr: true,
			errMsg:  "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Helper functions
func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func int64Ptr(v int64) *int64 {
	return &v
}
