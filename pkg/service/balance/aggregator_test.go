package balance_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirasaad/accounts/infra/repository/memory"
	"github.com/amirasaad/accounts/pkg/domain"
	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/amirasaad/accounts/pkg/service/balance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	balances []string
	err      error
	calls    atomic.Int32
}

func (s *stubStore) ListBalances(context.Context) ([]string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return append([]string(nil), s.balances...), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestComputeTotalBalance_Scenarios(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		balances  []string
		batchSize int
		want      string
		batches   [][]string
	}{
		{
			name:      "five accounts in batches of two",
			balances:  []string{"100", "250", "50", "400", "25"},
			batchSize: 2,
			want:      "825",
			batches:   [][]string{{"100", "250"}, {"50", "400"}, {"25"}},
		},
		{
			name:      "fractional balances in a single batch",
			balances:  []string{"10.5", "20.25"},
			batchSize: 5,
			want:      "30.75",
			batches:   [][]string{{"10.5", "20.25"}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			store := &stubStore{balances: tc.balances}

			var mu sync.Mutex
			seen := make(map[int][]string)
			record := func(ctx context.Context, b balance.Batch) (decimal.Decimal, error) {
				sum, err := balance.SumBatch(ctx, b)
				mu.Lock()
				seen[b.Index] = b.Balances
				mu.Unlock()
				return sum, err
			}

			agg := balance.New(store, discardLogger(), balance.WithSumFunc(record))
			total, err := agg.ComputeTotalBalance(context.Background(), tc.batchSize)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(total), "got %s", total)
			assert.EqualValues(t, 1, store.calls.Load(), "store must be read exactly once")

			require.Len(t, seen, len(tc.batches))
			for i, want := range tc.batches {
				assert.Equal(t, want, seen[i])
			}
		})
	}
}

func TestComputeTotalBalance_PartialSums(t *testing.T) {
	t.Parallel()
	store := &stubStore{balances: []string{"100", "250", "50", "400", "25"}}

	var mu sync.Mutex
	partials := make(map[int]string)
	agg := balance.New(store, discardLogger(), balance.WithSumFunc(
		func(ctx context.Context, b balance.Batch) (decimal.Decimal, error) {
			sum, err := balance.SumBatch(ctx, b)
			mu.Lock()
			partials[b.Index] = sum.String()
			mu.Unlock()
			return sum, err
		}))

	_, err := agg.ComputeTotalBalance(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "350", 1: "450", 2: "25"}, partials)
}

func TestComputeTotalBalance_EmptyStore(t *testing.T) {
	t.Parallel()
	for _, size := range []int{1, 2, 5, 1000} {
		store := &stubStore{}
		var called atomic.Bool
		agg := balance.New(store, discardLogger(), balance.WithSumFunc(
			func(ctx context.Context, b balance.Batch) (decimal.Decimal, error) {
				called.Store(true)
				return balance.SumBatch(ctx, b)
			}))

		total, err := agg.ComputeTotalBalance(context.Background(), size)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
		assert.False(t, called.Load(), "no worker should run on an empty store")
	}
}

func TestComputeTotalBalance_InvalidBatchSize(t *testing.T) {
	t.Parallel()
	for _, size := range []int{0, -1, -100} {
		store := &stubStore{balances: []string{"1"}}
		agg := balance.New(store, discardLogger())

		total, err := agg.ComputeTotalBalance(context.Background(), size)
		require.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.True(t, total.IsZero())
		assert.Zero(t, store.calls.Load(), "validation must happen before reading the store")
	}
}

func TestComputeTotalBalance_PartitioningInvariance(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(42, 7))

	for round := 0; round < 20; round++ {
		n := 1 + rng.IntN(60)
		balances := make([]string, n)
		want := decimal.Zero
		for i := range balances {
			v := decimal.New(rng.Int64N(10_000_000), -2)
			balances[i] = v.String()
			want = want.Add(v)
		}

		agg := balance.New(&stubStore{balances: balances}, discardLogger())
		for size := 1; size <= n+1; size++ {
			got, err := agg.ComputeTotalBalance(context.Background(), size)
			require.NoError(t, err)
			require.True(t, want.Equal(got), "n=%d size=%d want %s got %s", n, size, want, got)
		}
	}
}

func TestComputeTotalBalance_RandomWorkerDelays(t *testing.T) {
	t.Parallel()
	balances := make([]string, 40)
	for i := range balances {
		balances[i] = decimal.New(int64(i*137+11), -2).String()
	}
	store := &stubStore{balances: balances}

	jitter := func(ctx context.Context, b balance.Batch) (decimal.Decimal, error) {
		time.Sleep(time.Duration(rand.IntN(3000)) * time.Microsecond)
		return balance.SumBatch(ctx, b)
	}
	agg := balance.New(store, discardLogger(), balance.WithSumFunc(jitter))

	first, err := agg.ComputeTotalBalance(context.Background(), 3)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := agg.ComputeTotalBalance(context.Background(), 3)
		require.NoError(t, err)
		assert.True(t, first.Equal(got), "run %d: %s != %s", i, got, first)
	}
}

func TestComputeTotalBalance_WorkersRunConcurrently(t *testing.T) {
	t.Parallel()
	const batches = 4
	store := &stubStore{balances: []string{"1", "2", "3", "4"}}

	var arrived sync.WaitGroup
	arrived.Add(batches)
	allIn := make(chan struct{})
	go func() {
		arrived.Wait()
		close(allIn)
	}()

	agg := balance.New(store, discardLogger(), balance.WithSumFunc(
		func(ctx context.Context, b balance.Batch) (decimal.Decimal, error) {
			arrived.Done()
			select {
			case <-allIn:
			case <-time.After(5 * time.Second):
				return decimal.Zero, errors.New("workers were not scheduled concurrently")
			}
			return balance.SumBatch(ctx, b)
		}))

	total, err := agg.ComputeTotalBalance(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(total))
}

func TestComputeTotalBalance_MaxWorkers(t *testing.T) {
	t.Parallel()
	balances := make([]string, 30)
	for i := range balances {
		balances[i] = "1.5"
	}

	var inFlight, peak atomic.Int32
	agg := balance.New(&stubStore{balances: balances}, discardLogger(),
		balance.WithMaxWorkers(2),
		balance.WithSumFunc(func(ctx context.Context, b balance.Batch) (decimal.Decimal, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
			return balance.SumBatch(ctx, b)
		}))

	total, err := agg.ComputeTotalBalance(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(45).Equal(total))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestComputeTotalBalance_CorruptBalance(t *testing.T) {
	t.Parallel()
	store := &stubStore{balances: []string{"100", "250", "50", "not-a-number", "25"}}
	agg := balance.New(store, discardLogger())

	total, err := agg.ComputeTotalBalance(context.Background(), 2)
	require.Error(t, err)
	assert.True(t, total.IsZero(), "no partial total on failure")
	assert.ErrorIs(t, err, domain.ErrAggregationFailed)

	var aggErr *balance.AggregationError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, []int{1}, aggErr.FailedBatches())

	var batchErr *balance.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Index)
	assert.Contains(t, err.Error(), "batch 1")
}

func TestComputeTotalBalance_ReportsEveryFailedBatch(t *testing.T) {
	t.Parallel()
	store := &stubStore{balances: []string{"x", "1", "y", "2"}}

	// Every worker waits for the others so that no failure cancels a sibling
	// before it has parsed its batch.
	var ready sync.WaitGroup
	ready.Add(4)
	agg := balance.New(store, discardLogger(), balance.WithSumFunc(
		func(_ context.Context, b balance.Batch) (decimal.Decimal, error) {
			ready.Done()
			ready.Wait()
			return balance.SumBatch(context.Background(), b)
		}))

	_, err := agg.ComputeTotalBalance(context.Background(), 1)
	var aggErr *balance.AggregationError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, []int{0, 2}, aggErr.FailedBatches())
}

func TestComputeTotalBalance_StoreError(t *testing.T) {
	t.Parallel()
	storeErr := errors.New("dial tcp: connection refused")
	store := &stubStore{err: errors.Join(domain.ErrUnavailable, storeErr)}

	var called atomic.Bool
	agg := balance.New(store, discardLogger(), balance.WithSumFunc(
		func(ctx context.Context, b balance.Batch) (decimal.Decimal, error) {
			called.Store(true)
			return balance.SumBatch(ctx, b)
		}))

	_, err := agg.ComputeTotalBalance(context.Background(), 2)
	require.ErrorIs(t, err, domain.ErrUnavailable)
	assert.ErrorIs(t, err, storeErr)
	assert.False(t, called.Load())
}

func TestComputeTotalBalance_Cancellation(t *testing.T) {
	t.Parallel()

	t.Run("already cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		agg := balance.New(&stubStore{balances: []string{"1", "2", "3"}}, discardLogger())
		_, err := agg.ComputeTotalBalance(ctx, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancelled while workers run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		started := make(chan struct{}, 3)
		agg := balance.New(&stubStore{balances: []string{"1", "2", "3"}}, discardLogger(),
			balance.WithSumFunc(func(ctx context.Context, b balance.Batch) (decimal.Decimal, error) {
				started <- struct{}{}
				<-ctx.Done()
				return decimal.Zero, ctx.Err()
			}))

		go func() {
			<-started
			cancel()
		}()

		total, err := agg.ComputeTotalBalance(ctx, 1)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, domain.ErrAggregationFailed)
		assert.True(t, total.IsZero())
	})
}

// snapshotSignal reports when the snapshot has been taken.
type snapshotSignal struct {
	*memory.Store
	taken chan struct{}
}

func (s *snapshotSignal) ListBalances(ctx context.Context) ([]string, error) {
	out, err := s.Store.ListBalances(ctx)
	close(s.taken)
	return out, err
}

func TestComputeTotalBalance_SnapshotIgnoresLaterDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()

	var victim *account.Account
	for i, bal := range []string{"100", "250", "50", "400", "25"} {
		acc, err := account.New().
			WithName("holder").
			WithNumber(string(rune('A' + i))).
			WithBalance(decimal.RequireFromString(bal)).
			Build()
		require.NoError(t, err)
		require.NoError(t, store.Create(ctx, acc))
		if bal == "400" {
			victim = acc
		}
	}

	signal := &snapshotSignal{Store: store, taken: make(chan struct{})}
	deleted := make(chan struct{})
	agg := balance.New(signal, discardLogger(), balance.WithSumFunc(
		func(ctx context.Context, b balance.Batch) (decimal.Decimal, error) {
			<-deleted
			return balance.SumBatch(ctx, b)
		}))

	go func() {
		<-signal.taken
		assert.NoError(t, store.Delete(ctx, victim.ID))
		close(deleted)
	}()

	total, err := agg.ComputeTotalBalance(ctx, 2)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(825).Equal(total), "snapshot total, got %s", total)

	after, err := balance.New(store, discardLogger()).ComputeTotalBalance(ctx, 2)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(425).Equal(after), "next call sees the delete, got %s", after)
}
