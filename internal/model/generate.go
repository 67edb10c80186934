package model

import (
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

const (
	PriceScale   = 2
	DateSpanDays = 3650

	minTickerLength = 3
	maxTickerLength = 4
)

var (
	MinPrice = decimal.RequireFromString("1.00")
	MaxPrice = decimal.RequireFromString("1000.00")
)

// Generator produces synthetic trades.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator creates a generator.  A seed of 0 uses a random seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// GenerateSampleData produces n random trades using a randomly seeded generator.
func GenerateSampleData(n int) []Trade {
	return NewGenerator(0).Generate(n)
}

// Generate produces exactly n trades, or none when n is not positive.
func (g *Generator) Generate(n int) []Trade {
	if n <= 0 {
		return []Trade{}
	}

	latest := AsDate(g.now())
	earliest := latest.AddDate(0, 0, -DateSpanDays)
	minPrice := MinPrice.InexactFloat64()
	maxPrice := MaxPrice.InexactFloat64()

	out := make([]Trade, n)
	for i := range out {
		price := decimal.NewFromFloat(g.faker.Price(minPrice, maxPrice)).Round(PriceScale)
		if price.LessThan(MinPrice) {
			price = MinPrice
		} else if price.GreaterThan(MaxPrice) {
			price = MaxPrice
		}

		out[i] = Trade{
			PurchaseDate:  AsDate(g.faker.DateRange(earliest, latest)),
			PurchasePrice: price,
			StockName:     g.ticker(),
		}
	}
	return out
}

func (g *Generator) ticker() string {
	length := g.faker.IntRange(minTickerLength, maxTickerLength)
	return strings.ToUpper(g.faker.LetterN(uint(length)))
}
