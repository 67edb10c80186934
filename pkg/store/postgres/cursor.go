package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/meschbach/tradeingest/internal/model"
	"github.com/meschbach/tradeingest/pkg/store"
)

// cursor fetches one row per round trip so the server side position always matches the current row for
// WHERE CURRENT OF.
type cursor struct {
	tx      pgx.Tx
	current model.Trade
	has     bool
	done    bool
	closed  bool
	failed  bool
	err     error
}

func (c *cursor) Next(ctx context.Context) bool {
	if c.closed {
		c.err = store.Wrap(store.OpCursorNext, store.ErrCursorClosed)
		return false
	}
	if c.done {
		return false
	}

	var row tradeRow
	err := c.tx.QueryRow(ctx, fetchNextSQL).Scan(row.targets()...)
	if errors.Is(err, pgx.ErrNoRows) {
		c.done = true
		c.has = false
		return false
	}
	if err == nil {
		c.current, err = row.trade()
	}
	if err != nil {
		c.done = true
		c.has = false
		c.failed = true
		c.err = store.Wrap(store.OpCursorNext, err)
		return false
	}
	c.has = true
	return true
}

func (c *cursor) Trade() model.Trade {
	return c.current
}

func (c *cursor) Set(ctx context.Context, trade model.Trade) error {
	if c.closed {
		return store.Wrap(store.OpCursorSet, store.ErrCursorClosed)
	}
	if !c.has {
		return store.Wrap(store.OpCursorSet, store.ErrNoCurrentRow)
	}
	if _, err := c.tx.Exec(ctx, updateCurrentSQL, tradeArgs(trade)...); err != nil {
		c.failed = true
		return store.Wrap(store.OpCursorSet, err)
	}
	c.current = trade
	return nil
}

func (c *cursor) Err() error {
	return c.err
}

// Close releases the cursor and commits the rewrites.  A cursor which hit an error rolls back instead.
func (c *cursor) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.has = false

	if c.failed {
		return store.Wrap(store.OpCursorClose, c.tx.Rollback(ctx))
	}
	if _, err := c.tx.Exec(ctx, closeCursorSQL); err != nil {
		return store.Wrap(store.OpCursorClose, errors.Join(err, c.tx.Rollback(ctx)))
	}
	return store.Wrap(store.OpCursorClose, c.tx.Commit(ctx))
}
