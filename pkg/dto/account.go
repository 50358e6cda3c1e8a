package dto

import (
	"time"

	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRead is a read-optimized DTO for account queries and API responses.
type AccountRead struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Number    string          `json:"number"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountCreate is a DTO for creating a new account.
type AccountCreate struct {
	Name    string
	Number  string
	Balance decimal.Decimal
}

// AccountUpdate is a DTO for updating one or more fields of an account.
type AccountUpdate struct {
	Name    *string
	Number  *string
	Balance *decimal.Decimal
}

// ToAccountRead maps a domain account to its read DTO.
func ToAccountRead(acc *account.Account) *AccountRead {
	if acc == nil {
		return nil
	}
	return &AccountRead{
		ID:        acc.ID,
		Name:      acc.Name,
		Number:    acc.Number,
		Balance:   acc.Balance,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}
}

// ToAccountReads maps a slice of domain accounts.
func ToAccountReads(accs []*account.Account) []*AccountRead {
	out := make([]*AccountRead, 0, len(accs))
	for _, a := range accs {
		out = append(out, ToAccountRead(a))
	}
	return out
}
