package faking

import (
	"github.com/go-faker/faker/v4"
	"github.com/shopspring/decimal"
)

func RandIntRange(min, max int) int {
	values, err := faker.RandomInt(min, max, 1)
	if err != nil {
		panic(err)
	}
	return values[0]
}

// RandPrice produces a price with two decimal places between 1.00 and 999.99.
func RandPrice() decimal.Decimal {
	return decimal.New(int64(RandIntRange(100, 99999)), -2)
}
