package balance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Batch is a contiguous slice of a balance snapshot summed by one worker.
type Batch struct {
	Index    int
	Balances []string
}

// Partition splits snapshot into consecutive batches of at most size
// elements, preserving order. The batches share the snapshot's backing array
// and must be treated as read-only. size must be positive.
func Partition(snapshot []string, size int) []Batch {
	if size < 1 || len(snapshot) == 0 {
		return nil
	}
	batches := make([]Batch, 0, (len(snapshot)+size-1)/size)
	for start := 0; start < len(snapshot); start += size {
		end := min(start+size, len(snapshot))
		batches = append(batches, Batch{
			Index:    len(batches),
			Balances: snapshot[start:end:end],
		})
	}
	return batches
}

// SumFunc computes the partial sum of one batch.
type SumFunc func(ctx context.Context, b Batch) (decimal.Decimal, error)

// SumBatch parses every balance of the batch as a decimal and adds them up.
// It stops early when ctx is done.
func SumBatch(ctx context.Context, b Batch) (decimal.Decimal, error) {
	sum := decimal.Zero
	for i, raw := range b.Balances {
		if err := ctx.Err(); err != nil {
			return decimal.Zero, err
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("balance %d %q is not a number: %w", i, raw, err)
		}
		sum = sum.Add(v)
	}
	return sum, nil
}
