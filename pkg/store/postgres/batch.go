package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/meschbach/tradeingest/internal/model"
	"github.com/meschbach/tradeingest/pkg/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// batchStatement queues executions of the prepared insert into a single pgx.Batch.
type batchStatement struct {
	conn   *pgx.Conn
	batch  *pgx.Batch
	closed bool
}

func (b *batchStatement) Add(trade model.Trade) {
	b.batch.Queue(insertStatementID, tradeArgs(trade)...)
}

// Execute sends every queued insert in one round trip.  The batch runs as an implicit transaction so either all
// rows are stored or none are.
func (b *batchStatement) Execute(parent context.Context) (problem error) {
	if b.closed {
		return store.Wrap(store.OpBatchExec, store.ErrStatementClosed)
	}
	pending := b.batch
	b.batch = &pgx.Batch{}

	ctx, span := tracer.Start(parent, "BatchExecute", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("tradeingest.count", pending.Len())))
	defer span.End()

	results := b.conn.SendBatch(ctx, pending)
	defer func() {
		if err := results.Close(); err != nil && problem == nil {
			problem = err
		}
		if problem != nil {
			failSpan(span, problem, "batch failed")
			problem = store.Wrap(store.OpBatchExec, problem)
		}
	}()

	for i := 0; i < pending.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (b *batchStatement) Close(ctx context.Context) error {
	if b.closed {
		return nil
	}
	b.closed = true
	return store.Wrap(store.OpBatchClose, b.conn.Deallocate(ctx, insertStatementID))
}
