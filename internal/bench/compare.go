package bench

import (
	"context"
	"fmt"

	"github.com/meschbach/tradeingest/internal/model"
)

// Comparison holds the timings of both store paths over the same trades.
type Comparison struct {
	Bulk  Result
	Batch Result
}

// Speedup is how many times faster the bulk path was.  Zero when either side has no measurable time.
func (c Comparison) Speedup() float64 {
	if c.Bulk.Elapsed <= 0 || c.Batch.Elapsed <= 0 {
		return 0
	}
	return float64(c.Batch.Elapsed) / float64(c.Bulk.Elapsed)
}

// Compare stores trades through the bulk path and then again through the batch path.
func (r *Runner) Compare(parent context.Context, trades []model.Trade) (Comparison, error) {
	ctx, span := tracer.Start(parent, "Compare")
	defer span.End()

	var out Comparison
	bulk, err := r.BulkStore(ctx, trades)
	if err != nil {
		return out, err
	}
	out.Bulk = bulk
	fmt.Fprintf(r.Out, "Bulk execution time: %dms\n", bulk.Milliseconds())

	out.Batch = r.BatchInsert(ctx, trades)
	if out.Batch.Err != nil {
		return out, out.Batch.Err
	}
	fmt.Fprintf(r.Out, "SQL batch execution time: %dms\n", out.Batch.Milliseconds())

	if speedup := out.Speedup(); speedup > 0 {
		fmt.Fprintf(r.Out, "Bulk path was %.2fx the speed of SQL batch.\n", speedup)
	}
	return out, nil
}
