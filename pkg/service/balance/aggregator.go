// Package balance computes the total balance across all stored accounts.
//
// The total is produced by a fan-out/fan-in over a point-in-time snapshot:
// the snapshot is read once, cut into batches, every batch is summed by its
// own goroutine and the caller blocks until all of them are done before the
// partial sums are combined. Writes that commit after the snapshot is read
// are not reflected in that call's result.
package balance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/amirasaad/accounts/pkg/domain"
	repo "github.com/amirasaad/accounts/pkg/repository/account"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Aggregator sums account balances in concurrent batches.
type Aggregator struct {
	store      repo.BalanceLister
	sum        SumFunc
	maxWorkers int
	logger     *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithMaxWorkers bounds the number of batches summed at the same time.
// Zero or a negative value means no bound.
func WithMaxWorkers(n int) Option {
	return func(a *Aggregator) {
		a.maxWorkers = n
	}
}

// WithSumFunc replaces the per-batch summation. Defaults to SumBatch.
func WithSumFunc(fn SumFunc) Option {
	return func(a *Aggregator) {
		if fn != nil {
			a.sum = fn
		}
	}
}

// New creates an Aggregator reading from store.
func New(store repo.BalanceLister, logger *slog.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Aggregator{
		store:  store,
		sum:    SumBatch,
		logger: logger.With("component", "balance-aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ComputeTotalBalance returns the sum of all balances in the store.
//
// batchSize is the maximum number of balances summed by one worker and must
// be positive. The store is read exactly once. The result is all-or-nothing:
// if any batch fails an *AggregationError naming every failed batch is
// returned and no total is produced.
func (a *Aggregator) ComputeTotalBalance(ctx context.Context, batchSize int) (decimal.Decimal, error) {
	if batchSize < 1 {
		return decimal.Zero, fmt.Errorf("%w: batch size must be positive, got %d", domain.ErrInvalidArgument, batchSize)
	}

	snapshot, err := a.store.ListBalances(ctx)
	if err != nil {
		a.logger.Error("failed to read balance snapshot", "error", err)
		return decimal.Zero, err
	}
	if len(snapshot) == 0 {
		return decimal.Zero, nil
	}

	batches := Partition(snapshot, batchSize)
	logger := a.logger.With("accounts", len(snapshot), "batch_size", batchSize, "batches", len(batches))
	logger.Debug("aggregation started")

	partials := make(chan decimal.Decimal, len(batches))
	var (
		mu       sync.Mutex
		failures []*BatchError
	)

	g, gctx := errgroup.WithContext(ctx)
	if a.maxWorkers > 0 {
		g.SetLimit(a.maxWorkers)
	}
	for _, b := range batches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partial, err := a.sum(gctx, b)
			if err != nil {
				// A sibling failure or caller cancellation is not this batch's fault.
				if gctx.Err() != nil && isContextErr(err) {
					return err
				}
				be := &BatchError{Index: b.Index, Err: err}
				mu.Lock()
				failures = append(failures, be)
				mu.Unlock()
				return be
			}
			partials <- partial
			return nil
		})
	}

	waitErr := g.Wait()
	close(partials)

	if len(failures) > 0 {
		slices.SortFunc(failures, func(x, y *BatchError) int { return x.Index - y.Index })
		aggErr := &AggregationError{Failures: failures}
		logger.Error("aggregation failed", "failed_batches", aggErr.FailedBatches(), "error", aggErr)
		return decimal.Zero, aggErr
	}
	if waitErr != nil {
		logger.Warn("aggregation interrupted", "error", waitErr)
		return decimal.Zero, waitErr
	}
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for p := range partials {
		total = total.Add(p)
	}
	logger.Debug("aggregation finished", "total", total.String())
	return total, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
