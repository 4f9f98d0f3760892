package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCreatedEvent is handed to the notification sink once a transaction is durable.
type TransactionCreatedEvent struct {
	TransactionID   string          `json:"transactionID"`
	OwnerID         int64           `json:"ownerID"`
	RecurringItemID int64           `json:"recurringItemID"`
	Type            FlowType        `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyID      int64           `json:"currencyID"`
	Date            time.Time       `json:"date"`
}
