// Package balance exposes the total balance computation over HTTP.
package balance

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/amirasaad/accounts/pkg/config"
	"github.com/amirasaad/accounts/pkg/domain"
	balancesvc "github.com/amirasaad/accounts/pkg/service/balance"
	"github.com/amirasaad/accounts/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// TotalComputer computes the sum of all account balances.
type TotalComputer interface {
	ComputeTotalBalance(ctx context.Context, batchSize int) (decimal.Decimal, error)
}

// TotalBalanceResponse is the body of a successful total balance request.
type TotalBalanceResponse struct {
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// MarshalJSON writes the total as a JSON number with every digit of the
// decimal sum.
func (r TotalBalanceResponse) MarshalJSON() ([]byte, error) {
	return []byte(`{"total_balance":` + r.TotalBalance.String() + `}`), nil
}

// Routes registers the balance endpoints.
func Routes(app fiber.Router, totals TotalComputer, cfg *config.Balance) {
	app.Get("/balances/total", TotalBalance(totals, cfg))
}

// TotalBalance returns a Fiber handler computing the total balance.
// @Summary Total balance across all accounts
// @Description Sums every account balance in concurrent batches of batch_size accounts.
// @Tags balances
// @Produce json
// @Param batch_size query int false "Accounts per batch (default 5)"
// @Success 200 {object} TotalBalanceResponse
// @Failure 400 {object} common.ProblemDetails "Invalid batch size"
// @Failure 422 {object} common.ProblemDetails "One or more batches failed"
// @Failure 503 {object} common.ProblemDetails "Store unavailable"
// @Failure 504 {object} common.ProblemDetails "Aggregation timed out"
// @Router /balances/total [get]
func TotalBalance(totals TotalComputer, cfg *config.Balance) fiber.Handler {
	return func(c *fiber.Ctx) error {
		batchSize, err := parseBatchSize(c.Query("batch_size"), cfg)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid batch size", err)
		}

		ctx := c.UserContext()
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}

		total, err := totals.ComputeTotalBalance(ctx, batchSize)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return common.ProblemDetailsJSON(c, "Total balance timed out", err, fiber.StatusGatewayTimeout)
			}
			var aggErr *balancesvc.AggregationError
			if errors.As(err, &aggErr) {
				return common.ProblemDetailsJSON(c, "Failed to compute total balance", err,
					fiber.Map{"failed_batches": aggErr.FailedBatches()})
			}
			return common.ProblemDetailsJSON(c, "Failed to compute total balance", err)
		}
		return c.Status(fiber.StatusOK).JSON(TotalBalanceResponse{TotalBalance: total})
	}
}

func parseBatchSize(raw string, cfg *config.Balance) (int, error) {
	if raw == "" {
		return cfg.DefaultBatchSize, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: batch_size must be an integer, got %q", domain.ErrInvalidArgument, raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: batch_size must be positive, got %d", domain.ErrInvalidArgument, n)
	}
	if cfg.MaxBatchSize > 0 && n > cfg.MaxBatchSize {
		return 0, fmt.Errorf("%w: batch_size must not exceed %d, got %d", domain.ErrInvalidArgument, cfg.MaxBatchSize, n)
	}
	return n, nil
}
