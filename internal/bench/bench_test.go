package bench

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/meschbach/tradeingest/internal/model"
	"github.com/meschbach/tradeingest/pkg/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock advances by step every time it is read.
type steppingClock struct {
	now  time.Time
	step time.Duration
}

func (s *steppingClock) Now() time.Time {
	current := s.now
	s.now = s.now.Add(s.step)
	return current
}

func newRunner(s store.Store) (*Runner, *bytes.Buffer) {
	out := &bytes.Buffer{}
	r := NewRunner(s, out)
	clock := &steppingClock{now: time.Date(2016, time.August, 12, 0, 0, 0, 0, time.UTC), step: 5 * time.Millisecond}
	r.Now = clock.Now
	return r, out
}

func sample(n int) []model.Trade {
	return model.NewGenerator(0).Generate(n)
}

func TestBulkStore(t *testing.T) {
	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	t.Run("Given generated trades", func(t *testing.T) {
		memory := store.NewMemory()
		r, out := newRunner(memory)

		trades := sample(25)
		result, err := r.BulkStore(ctx, trades)
		require.NoError(t, err)

		assert.Equal(t, 25, result.Count)
		assert.Equal(t, 5*time.Millisecond, result.Elapsed)
		assert.Equal(t, int64(5), result.Milliseconds())
		assert.Equal(t, trades, memory.Rows())
		assert.Equal(t, "Saved 25 trade(s).\n", out.String())
		assert.Equal(t, 1, memory.Calls(store.OpBulkWrite), "a single call per batch")
	})

	t.Run("Given the store fails", func(t *testing.T) {
		memory := store.NewMemory()
		problem := errors.New(faker.Sentence())
		memory.FailOn(store.OpBulkWrite, problem)
		r, out := newRunner(memory)

		result, err := r.BulkStore(ctx, sample(3))
		assert.ErrorIs(t, err, problem)
		var tagged *store.PersistenceError
		assert.True(t, errors.As(err, &tagged))
		assert.Equal(t, Result{}, result)
		assert.Empty(t, out.String())
		assert.Equal(t, 1, memory.Calls(store.OpBulkWrite), "no retries")
	})
}

func TestViewAll(t *testing.T) {
	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	t.Run("Given stored trades read back with a zero threshold", func(t *testing.T) {
		memory := store.NewMemory()
		r, out := newRunner(memory)
		trades := sample(40)
		_, err := r.BulkStore(ctx, trades)
		require.NoError(t, err)
		out.Reset()

		result, err := r.ViewAll(ctx, decimal.Zero)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Count, len(trades))
		assert.Equal(t, "Total Amount of transactions read is 40\n", out.String())
		for _, row := range memory.Rows() {
			assert.Equal(t, RewritePrefix, row.StockName[:len(RewritePrefix)])
		}
	})

	t.Run("Given two consecutive runs", func(t *testing.T) {
		memory := store.NewMemory()
		require.NoError(t, memory.BulkWrite(ctx, []model.Trade{
			{PurchaseDate: model.AsDate(time.Now()), PurchasePrice: decimal.RequireFromString("12.50"), StockName: "IBM"},
		}))
		r, _ := newRunner(memory)

		_, err := r.ViewAll(ctx, decimal.Zero)
		require.NoError(t, err)
		_, err = r.ViewAll(ctx, decimal.Zero)
		require.NoError(t, err)

		rows := memory.Rows()
		if assert.Len(t, rows, 1) {
			assert.Equal(t, "NYSE-NYSE-IBM", rows[0].StockName, "prefix is applied on every visit")
		}
	})

	t.Run("Given the timed window", func(t *testing.T) {
		memory := store.NewMemory()
		require.NoError(t, memory.BulkWrite(ctx, sample(3)))
		r, _ := newRunner(memory)

		result, err := r.ViewAll(ctx, decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Millisecond, result.Elapsed, "clock is read once before execute and once after the loop")
		assert.Equal(t, 1, memory.Calls(store.OpCursorClose))
	})

	t.Run("Given the query fails", func(t *testing.T) {
		memory := store.NewMemory()
		memory.FailOn(store.OpQuery, errors.New("no such table"))
		r, _ := newRunner(memory)

		_, err := r.ViewAll(ctx, decimal.Zero)
		assert.Error(t, err)
		assert.Equal(t, 0, memory.Calls(store.OpCursorClose))
	})

	t.Run("Given a rewrite fails", func(t *testing.T) {
		memory := store.NewMemory()
		require.NoError(t, memory.BulkWrite(ctx, sample(2)))
		memory.FailOn(store.OpCursorSet, errors.New("deadlock detected"))
		r, out := newRunner(memory)

		result, err := r.ViewAll(ctx, decimal.Zero)
		assert.Error(t, err)
		assert.Equal(t, Result{}, result)
		assert.Equal(t, 1, memory.Calls(store.OpCursorClose), "the cursor is released on failure")
		assert.Empty(t, out.String())
	})
}

func TestBatchInsert(t *testing.T) {
	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	t.Run("Given generated trades", func(t *testing.T) {
		memory := store.NewMemory()
		r, out := newRunner(memory)
		trades := sample(10)

		result := r.BatchInsert(ctx, trades)
		require.NoError(t, result.Err)
		assert.Equal(t, 10, result.Count)
		assert.Equal(t, 5*time.Millisecond, result.Elapsed)
		assert.Equal(t, "Inserted 10 item(s) via SQL batch successfully.\n", out.String())
		assert.Equal(t, 1, memory.Calls(store.OpBatchExec))
		assert.Equal(t, 1, memory.Calls(store.OpBatchClose))
	})

	t.Run("Given trades with distinct dates", func(t *testing.T) {
		memory := store.NewMemory()
		r, _ := newRunner(memory)
		trades := []model.Trade{
			{PurchaseDate: time.Date(2001, time.January, 2, 0, 0, 0, 0, time.UTC), PurchasePrice: decimal.RequireFromString("1.00"), StockName: "AAA"},
			{PurchaseDate: time.Date(2019, time.November, 30, 0, 0, 0, 0, time.UTC), PurchasePrice: decimal.RequireFromString("2.00"), StockName: "BBB"},
		}

		result := r.BatchInsert(ctx, trades)
		require.NoError(t, result.Err)

		rows := memory.Rows()
		if assert.Len(t, rows, 2) {
			assert.Equal(t, trades[0].PurchaseDate, rows[0].PurchaseDate, "each row keeps its own date")
			assert.Equal(t, trades[1].PurchaseDate, rows[1].PurchaseDate, "each row keeps its own date")
		}
	})

	t.Run("Given the batch fails", func(t *testing.T) {
		memory := store.NewMemory()
		problem := errors.New("unique violation")
		memory.FailOn(store.OpBatchExec, problem)
		r, out := newRunner(memory)

		result := r.BatchInsert(ctx, sample(4))
		assert.ErrorIs(t, result.Err, problem)
		assert.Equal(t, 0, result.Count)
		assert.Equal(t, time.Duration(0), result.Elapsed)
		assert.Contains(t, out.String(), "There was a problem storing items using SQL batch")
		assert.Equal(t, 1, memory.Calls(store.OpBatchClose), "statement is closed on failure")
		assert.Empty(t, memory.Rows())
	})

	t.Run("Given prepare fails", func(t *testing.T) {
		memory := store.NewMemory()
		memory.FailOn(store.OpPrepare, errors.New("syntax error"))
		r, out := newRunner(memory)

		result := r.BatchInsert(ctx, sample(1))
		assert.Error(t, result.Err)
		assert.Contains(t, out.String(), "There was a problem storing items using SQL batch")
		assert.Equal(t, 0, memory.Calls(store.OpBatchExec))
	})
}

func TestCompare(t *testing.T) {
	ctx := context.Background()

	t.Run("Given both paths succeed", func(t *testing.T) {
		memory := store.NewMemory()
		r, out := newRunner(memory)
		trades := sample(5)

		comparison, err := r.Compare(ctx, trades)
		require.NoError(t, err)
		assert.Equal(t, 5, comparison.Bulk.Count)
		assert.Equal(t, 5, comparison.Batch.Count)
		assert.Len(t, memory.Rows(), 10)
		assert.InDelta(t, 1.0, comparison.Speedup(), 0.0001)
		assert.Contains(t, out.String(), "Bulk path was 1.00x the speed of SQL batch.")
	})

	t.Run("Given the batch path fails", func(t *testing.T) {
		memory := store.NewMemory()
		memory.FailOn(store.OpBatchExec, errors.New("disk full"))
		r, _ := newRunner(memory)

		comparison, err := r.Compare(ctx, sample(2))
		assert.Error(t, err)
		assert.Equal(t, 2, comparison.Bulk.Count)
	})

	t.Run("Given no measurable time", func(t *testing.T) {
		assert.Equal(t, 0.0, Comparison{}.Speedup())
	})
}
