package store

import (
	"context"

	"github.com/meschbach/tradeingest/internal/model"
	"github.com/shopspring/decimal"
)

const (
	// Extent is the single table trades are stored into.
	Extent = "trade"

	OpBulkWrite   = "bulk-write"
	OpQuery       = "query"
	OpCursorNext  = "cursor-next"
	OpCursorSet   = "cursor-set"
	OpCursorClose = "cursor-close"
	OpPrepare     = "prepare"
	OpBatchExec   = "batch-execute"
	OpBatchClose  = "batch-close"
)

// Store is a session against the backing store.
type Store interface {
	// BulkWrite submits all trades as a single batch through the fast ingestion path.
	BulkWrite(ctx context.Context, trades []model.Trade) error
	// Query executes the trade query for all rows priced above threshold, ordered by stock name then purchase date.
	// The returned cursor is positioned before the first row.
	Query(ctx context.Context, threshold decimal.Decimal) (Cursor, error)
	// PrepareInsert prepares the generic parameterized insert statement.
	PrepareInsert(ctx context.Context) (BatchStatement, error)
	Close(ctx context.Context) error
}

// Cursor is a forward-only, single pass iterator over query results supporting update of the current row.
type Cursor interface {
	// Next advances to the next row, returning false when exhausted or on error.
	Next(ctx context.Context) bool
	// Trade returns the row at the current position.
	Trade() model.Trade
	// Set replaces the row at the current position.
	Set(ctx context.Context, trade model.Trade) error
	// Err reports the error which stopped Next, if any.
	Err() error
	Close(ctx context.Context) error
}

// BatchStatement queues bound parameter sets for a prepared insert and sends them together.
type BatchStatement interface {
	Add(trade model.Trade)
	Execute(ctx context.Context) error
	Close(ctx context.Context) error
}
