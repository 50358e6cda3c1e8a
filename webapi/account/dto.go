package account

import (
	"time"

	"github.com/amirasaad/accounts/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents the request body for creating a new account.
type CreateAccountRequest struct {
	Name    string  `json:"name" validate:"required,max=128"`
	Number  string  `json:"number" validate:"required,max=34"`
	Balance float64 `json:"balance" validate:"gte=0"`
}

// UpdateAccountRequest represents the request body for a partial update.
// Omitted fields keep their current value.
type UpdateAccountRequest struct {
	Name    *string  `json:"name,omitempty" validate:"omitempty,max=128"`
	Number  *string  `json:"number,omitempty" validate:"omitempty,max=34"`
	Balance *float64 `json:"balance,omitempty" validate:"omitempty,gte=0"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Number    string    `json:"number"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeleteAccountResponse reports the outcome of a delete.
type DeleteAccountResponse struct {
	Deleted bool `json:"deleted"`
}

func (r CreateAccountRequest) toDTO() dto.AccountCreate {
	return dto.AccountCreate{
		Name:    r.Name,
		Number:  r.Number,
		Balance: decimal.NewFromFloat(r.Balance),
	}
}

func (r UpdateAccountRequest) toDTO() dto.AccountUpdate {
	out := dto.AccountUpdate{Name: r.Name, Number: r.Number}
	if r.Balance != nil {
		b := decimal.NewFromFloat(*r.Balance)
		out.Balance = &b
	}
	return out
}

func toResponse(a *dto.AccountRead) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Number:    a.Number,
		Balance:   a.Balance.InexactFloat64(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toResponses(reads []*dto.AccountRead) []AccountResponse {
	out := make([]AccountResponse, 0, len(reads))
	for _, r := range reads {
		out = append(out, toResponse(r))
	}
	return out
}
