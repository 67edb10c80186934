package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a single stock purchase.  Trades have no identity beyond their field values.
type Trade struct {
	PurchaseDate  time.Time
	PurchasePrice decimal.Decimal
	StockName     string
}

// WithPrefix returns a copy of t with prefix prepended to the stock name.
func (t Trade) WithPrefix(prefix string) Trade {
	t.StockName = prefix + t.StockName
	return t
}

// AsDate truncates when to a calendar date in UTC.
func AsDate(when time.Time) time.Time {
	y, m, d := when.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
