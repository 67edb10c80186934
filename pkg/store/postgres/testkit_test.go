package postgres

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/lucasepe/codename"
	"github.com/meschbach/tradeingest/internal/model"
	"github.com/meschbach/tradeingest/migrations"
	"github.com/meschbach/tradeingest/pkg/junk/faking"
	"github.com/stretchr/testify/require"
)

const testURLEnv = "TRADEINGEST_TEST_URL"

// testKit owns a throw away schema holding its own trade extent.
type testKit struct {
	t      testing.TB
	admin  *Store
	schema string
	url    string
}

func newTestKit(t testing.TB, ctx context.Context) *testKit {
	base := os.Getenv(testURLEnv)
	if base == "" {
		t.Skipf("%s is not set", testURLEnv)
	}

	rng, err := codename.DefaultRNG()
	require.NoError(t, err)
	schema := strings.ReplaceAll(codename.Generate(rng, 6), "-", "_")

	admin, err := Connect(ctx, base)
	require.NoError(t, err)
	require.NoError(t, admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema)))

	parsed, err := url.Parse(base)
	require.NoError(t, err)
	query := parsed.Query()
	query.Set("search_path", schema)
	parsed.RawQuery = query.Encode()

	kit := &testKit{t: t, admin: admin, schema: schema, url: parsed.String()}
	t.Cleanup(kit.close)

	ddl, err := migrations.Trade.ReadFile("trade/0001_trade.up.sql")
	require.NoError(t, err)
	session := kit.connect(ctx)
	require.NoError(t, session.Exec(ctx, string(ddl)))
	return kit
}

// connect opens a session scoped to the kit's schema and closes it with the test.
func (k *testKit) connect(ctx context.Context) *Store {
	session, err := Connect(ctx, k.url)
	require.NoError(k.t, err)
	k.t.Cleanup(func() {
		require.NoError(k.t, session.Close(context.Background()))
	})
	return session
}

func (k *testKit) close() {
	ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	require.NoError(k.t, k.admin.Exec(ctx, fmt.Sprintf("DROP SCHEMA %s CASCADE", k.schema)))
	require.NoError(k.t, k.admin.Close(ctx))
}

func fakeTrades(n int) []model.Trade {
	tickers := faking.NewUniqueTickers()
	latest := model.AsDate(time.Now())
	out := make([]model.Trade, n)
	for i := range out {
		out[i] = model.Trade{
			PurchaseDate:  latest.AddDate(0, 0, -faking.RandIntRange(0, 365)),
			PurchasePrice: faking.RandPrice(),
			StockName:     tickers.Next(),
		}
	}
	return out
}

func sortedByName(trades []model.Trade) []model.Trade {
	out := append([]model.Trade(nil), trades...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].StockName < out[j].StockName
	})
	return out
}
