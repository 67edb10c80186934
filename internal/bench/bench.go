// Package bench times each way of moving trades in and out of a store.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/meschbach/tradeingest/internal/model"
	"github.com/meschbach/tradeingest/pkg/store"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RewritePrefix is prepended to every stock name visited by ViewAll.
const RewritePrefix = "NYSE-"

// Result describes a timed operation.
type Result struct {
	Count   int
	Elapsed time.Duration
	// Err is set when BatchInsert swallowed a failure.
	Err error
}

func (r Result) Milliseconds() int64 {
	return r.Elapsed.Milliseconds()
}

// Runner performs timed operations against a single store session.
type Runner struct {
	Store store.Store
	Out   io.Writer
	Now   func() time.Time
}

func NewRunner(s store.Store, out io.Writer) *Runner {
	return &Runner{Store: s, Out: out, Now: time.Now}
}

func (r *Runner) since(start time.Time) time.Duration {
	return r.Now().Sub(start)
}

// BulkStore writes trades through the fast ingestion path as one batch.
func (r *Runner) BulkStore(parent context.Context, trades []model.Trade) (Result, error) {
	ctx, span := tracer.Start(parent, "BulkStore")
	defer span.End()
	span.SetAttributes(attribute.Int("tradeingest.count", len(trades)))

	start := r.Now()
	if err := r.Store.BulkWrite(ctx, trades); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bulk write failed")
		return Result{}, err
	}
	elapsed := r.since(start)

	fmt.Fprintf(r.Out, "Saved %d trade(s).\n", len(trades))
	return Result{Count: len(trades), Elapsed: elapsed}, nil
}

// ViewAll visits every trade priced above threshold, prefixing each stock name with RewritePrefix and writing the row
// back through the cursor.  Closing the cursor is not part of the measured time.
func (r *Runner) ViewAll(parent context.Context, threshold decimal.Decimal) (result Result, problem error) {
	ctx, span := tracer.Start(parent, "ViewAll")
	defer span.End()

	start := r.Now()
	cursor, err := r.Store.Query(ctx, threshold)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return Result{}, err
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			problem = errors.Join(problem, err)
		}
		if problem != nil {
			span.RecordError(problem)
			span.SetStatus(codes.Error, "view all failed")
			result = Result{}
		}
	}()

	count := 0
	for cursor.Next(ctx) {
		trade := cursor.Trade().WithPrefix(RewritePrefix)
		if err := cursor.Set(ctx, trade); err != nil {
			return Result{}, err
		}
		count++
	}
	if err := cursor.Err(); err != nil {
		return Result{}, err
	}
	fmt.Fprintf(r.Out, "Total Amount of transactions read is %d\n", count)
	elapsed := r.since(start)

	span.SetAttributes(attribute.Int("tradeingest.count", count))
	return Result{Count: count, Elapsed: elapsed}, nil
}

// BatchInsert stores trades through the generic prepared statement path.  Failures are reported to Out and recorded
// on the returned Result; the measured time covers binding and executing only.
func (r *Runner) BatchInsert(parent context.Context, trades []model.Trade) Result {
	ctx, span := tracer.Start(parent, "BatchInsert")
	defer span.End()
	span.SetAttributes(attribute.Int("tradeingest.count", len(trades)))

	result, err := r.batchInsert(ctx, trades)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch insert failed")
		fmt.Fprintf(r.Out, "There was a problem storing items using SQL batch: %s\n", err.Error())
		return Result{Err: err}
	}
	fmt.Fprintf(r.Out, "Inserted %d item(s) via SQL batch successfully.\n", len(trades))
	return result
}

func (r *Runner) batchInsert(ctx context.Context, trades []model.Trade) (result Result, problem error) {
	statement, err := r.Store.PrepareInsert(ctx)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		problem = errors.Join(problem, statement.Close(ctx))
	}()

	start := r.Now()
	for _, trade := range trades {
		statement.Add(trade)
	}
	if err := statement.Execute(ctx); err != nil {
		return Result{}, err
	}
	elapsed := r.since(start)

	return Result{Count: len(trades), Elapsed: elapsed}, nil
}
