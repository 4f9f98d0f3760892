package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringItem is a row of the recurring_items table.
type RecurringItem struct {
	RecurringItemID      int64           `db:"recurring_item_id"`
	OwnerID              int64           `db:"owner_id"`
	Name                 string          `db:"name"`
	Type                 string          `db:"type"`
	Amount               decimal.Decimal `db:"amount"`
	CurrencyID           int64           `db:"currency_id"`
	Category             string          `db:"category"`
	StartDate            time.Time       `db:"start_date"`
	EndDate              *time.Time      `db:"end_date"` // Nullable
	FrequencyUnit        string          `db:"frequency_unit"`
	FrequencyInterval    int             `db:"frequency_interval"`
	IsActive             bool            `db:"is_active"`
	LastMaterializedDate *time.Time      `db:"last_materialized_date"` // Nullable cursor
	AuditFields
}
