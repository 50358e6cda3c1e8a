package account

import (
	"context"

	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/google/uuid"
)

// BalanceLister is the read capability the balance aggregator depends on.
type BalanceLister interface {
	// ListBalances returns the raw balance of every stored account, in
	// creation order. The returned slice is a copy owned by the caller.
	ListBalances(ctx context.Context) ([]string, error)
}

// Repository defines the account record store.
//
// Implementations map their own failures to domain errors: a missing record
// is domain.ErrNotFound, a duplicate number is domain.ErrConflict and an
// unreachable backend is domain.ErrUnavailable.
type Repository interface {
	BalanceLister

	// Create inserts a new account.
	Create(ctx context.Context, acc *account.Account) error

	// Get retrieves an account by its ID.
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// GetByNumber retrieves an account by its unique number.
	GetByNumber(ctx context.Context, number string) (*account.Account, error)

	// List returns every account in creation order.
	List(ctx context.Context) ([]*account.Account, error)

	// Update replaces the stored fields of an existing account.
	Update(ctx context.Context, acc *account.Account) error

	// Delete removes an account by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
