package balance

import (
	"fmt"
	"strings"

	"github.com/amirasaad/accounts/pkg/domain"
)

// BatchError records the failure of a single batch worker.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// AggregationError is returned when at least one batch failed. Failures are
// ordered by batch index. It matches domain.ErrAggregationFailed.
type AggregationError struct {
	Failures []*BatchError
}

func (e *AggregationError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("%s: %s", domain.ErrAggregationFailed, strings.Join(parts, "; "))
}

// Is reports whether target is domain.ErrAggregationFailed.
func (e *AggregationError) Is(target error) bool {
	return target == domain.ErrAggregationFailed
}

// Unwrap exposes the individual batch failures to errors.Is and errors.As.
func (e *AggregationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// FailedBatches returns the indexes of the failed batches.
func (e *AggregationError) FailedBatches() []int {
	idx := make([]int, 0, len(e.Failures))
	for _, f := range e.Failures {
		idx = append(idx, f.Index)
	}
	return idx
}
