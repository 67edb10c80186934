package store

import (
	"context"
	"sort"
	"sync"

	"github.com/meschbach/tradeingest/internal/model"
	"github.com/shopspring/decimal"
)

// Memory is an in-process Store.  Rows live in insertion order; cursors operate on row positions captured when the
// query executes.
type Memory struct {
	lock     sync.Mutex
	rows     []model.Trade
	failures map[string]error
	closed   bool
	calls    map[string]int
}

func NewMemory() *Memory {
	return &Memory{
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// FailOn causes every subsequent op to fail with err until cleared with a nil err.
func (m *Memory) FailOn(op string, err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Rows returns a copy of the stored trades.
func (m *Memory) Rows() []model.Trade {
	m.lock.Lock()
	defer m.lock.Unlock()
	out := make([]model.Trade, len(m.rows))
	copy(out, m.rows)
	return out
}

// Calls reports how many times op was attempted.
func (m *Memory) Calls(op string) int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.calls[op]
}

func (m *Memory) Closed() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.closed
}

// perform must be called with the lock held.
func (m *Memory) perform(ctx context.Context, op string) error {
	m.calls[op]++
	if m.closed {
		return &PersistenceError{Op: op, Underlying: ErrSessionClosed}
	}
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Op: op, Underlying: err}
	}
	if err, has := m.failures[op]; has {
		return &PersistenceError{Op: op, Underlying: err}
	}
	return nil
}

func (m *Memory) BulkWrite(ctx context.Context, trades []model.Trade) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if err := m.perform(ctx, OpBulkWrite); err != nil {
		return err
	}
	m.rows = append(m.rows, trades...)
	return nil
}

func (m *Memory) Query(ctx context.Context, threshold decimal.Decimal) (Cursor, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if err := m.perform(ctx, OpQuery); err != nil {
		return nil, err
	}

	var positions []int
	for i, row := range m.rows {
		if row.PurchasePrice.GreaterThan(threshold) {
			positions = append(positions, i)
		}
	}
	sort.SliceStable(positions, func(a, b int) bool {
		left, right := m.rows[positions[a]], m.rows[positions[b]]
		if left.StockName != right.StockName {
			return left.StockName < right.StockName
		}
		return left.PurchaseDate.Before(right.PurchaseDate)
	})
	return &memoryCursor{m: m, positions: positions, index: -1}, nil
}

func (m *Memory) PrepareInsert(ctx context.Context) (BatchStatement, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if err := m.perform(ctx, OpPrepare); err != nil {
		return nil, err
	}
	return &memoryBatch{m: m}, nil
}

func (m *Memory) Close(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.closed = true
	return nil
}

type memoryCursor struct {
	m         *Memory
	positions []int
	index     int
	current   model.Trade
	err       error
	closed    bool
}

func (c *memoryCursor) Next(ctx context.Context) bool {
	if c.closed {
		c.err = &PersistenceError{Op: OpCursorNext, Underlying: ErrCursorClosed}
		return false
	}
	if c.err != nil || c.index+1 >= len(c.positions) {
		c.index = len(c.positions)
		return false
	}

	c.m.lock.Lock()
	defer c.m.lock.Unlock()
	if err := c.m.perform(ctx, OpCursorNext); err != nil {
		c.err = err
		return false
	}
	c.index++
	c.current = c.m.rows[c.positions[c.index]]
	return true
}

func (c *memoryCursor) Trade() model.Trade {
	return c.current
}

func (c *memoryCursor) Set(ctx context.Context, trade model.Trade) error {
	if c.closed {
		return &PersistenceError{Op: OpCursorSet, Underlying: ErrCursorClosed}
	}
	if c.index < 0 || c.index >= len(c.positions) {
		return &PersistenceError{Op: OpCursorSet, Underlying: ErrNoCurrentRow}
	}

	c.m.lock.Lock()
	defer c.m.lock.Unlock()
	if err := c.m.perform(ctx, OpCursorSet); err != nil {
		return err
	}
	c.m.rows[c.positions[c.index]] = trade
	c.current = trade
	return nil
}

func (c *memoryCursor) Err() error {
	return c.err
}

func (c *memoryCursor) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.m.lock.Lock()
	defer c.m.lock.Unlock()
	c.m.calls[OpCursorClose]++
	return nil
}

type memoryBatch struct {
	m       *Memory
	pending []model.Trade
	closed  bool
}

func (b *memoryBatch) Add(trade model.Trade) {
	b.pending = append(b.pending, trade)
}

// Execute appends every pending trade or none of them.
func (b *memoryBatch) Execute(ctx context.Context) error {
	if b.closed {
		return &PersistenceError{Op: OpBatchExec, Underlying: ErrStatementClosed}
	}
	b.m.lock.Lock()
	defer b.m.lock.Unlock()
	pending := b.pending
	b.pending = nil
	if err := b.m.perform(ctx, OpBatchExec); err != nil {
		return err
	}
	b.m.rows = append(b.m.rows, pending...)
	return nil
}

func (b *memoryBatch) Close(ctx context.Context) error {
	b.closed = true
	b.m.lock.Lock()
	defer b.m.lock.Unlock()
	b.m.calls[OpBatchClose]++
	return nil
}
