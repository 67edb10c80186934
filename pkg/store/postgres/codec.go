package postgres

import (
	"errors"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/meschbach/tradeingest/internal/model"
	"github.com/shopspring/decimal"
)

var errNotANumber = errors.New("purchase price is not a finite number")

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, errNotANumber
	}
	coefficient := n.Int
	if coefficient == nil {
		coefficient = new(big.Int)
	}
	return decimal.NewFromBigInt(coefficient, n.Exp), nil
}

func toDate(when time.Time) pgtype.Date {
	return pgtype.Date{Time: model.AsDate(when), Valid: true}
}

// tradeArgs orders a trade's values to match tradeColumns.
func tradeArgs(trade model.Trade) []any {
	return []any{toDate(trade.PurchaseDate), toNumeric(trade.PurchasePrice), trade.StockName}
}

type tradeRow struct {
	date  pgtype.Date
	price pgtype.Numeric
	name  string
}

func (r *tradeRow) targets() []any {
	return []any{&r.date, &r.price, &r.name}
}

func (r *tradeRow) trade() (model.Trade, error) {
	price, err := fromNumeric(r.price)
	if err != nil {
		return model.Trade{}, err
	}
	return model.Trade{
		PurchaseDate:  model.AsDate(r.date.Time),
		PurchasePrice: price,
		StockName:     r.name,
	}, nil
}
