package models

// Owner is a row of the owners table.
type Owner struct {
	OwnerID              int64 `db:"owner_id"`
	SettlementCurrencyID int64 `db:"settlement_currency_id"`
	IsActive             bool  `db:"is_active"`
}
