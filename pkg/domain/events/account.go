package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountEvent holds the fields shared by all account lifecycle events.
type AccountEvent struct {
	ID         uuid.UUID `json:"id"`
	AccountID  uuid.UUID `json:"account_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newAccountEvent(accountID uuid.UUID) AccountEvent {
	return AccountEvent{
		ID:         uuid.New(),
		AccountID:  accountID,
		OccurredAt: time.Now().UTC(),
	}
}

// AccountCreated is emitted after an account is persisted.
type AccountCreated struct {
	AccountEvent
	Name    string          `json:"name"`
	Number  string          `json:"number"`
	Balance decimal.Decimal `json:"balance"`
}

// NewAccountCreated builds an AccountCreated event.
func NewAccountCreated(accountID uuid.UUID, name, number string, balance decimal.Decimal) *AccountCreated {
	return &AccountCreated{
		AccountEvent: newAccountEvent(accountID),
		Name:         name,
		Number:       number,
		Balance:      balance,
	}
}

func (e AccountCreated) Type() string { return EventTypeAccountCreated.String() }

// AccountUpdated is emitted after an account update commits.
type AccountUpdated struct {
	AccountEvent
	Name    string          `json:"name"`
	Number  string          `json:"number"`
	Balance decimal.Decimal `json:"balance"`
}

// NewAccountUpdated builds an AccountUpdated event.
func NewAccountUpdated(accountID uuid.UUID, name, number string, balance decimal.Decimal) *AccountUpdated {
	return &AccountUpdated{
		AccountEvent: newAccountEvent(accountID),
		Name:         name,
		Number:       number,
		Balance:      balance,
	}
}

func (e AccountUpdated) Type() string { return EventTypeAccountUpdated.String() }

// AccountDeleted is emitted after an account is removed.
type AccountDeleted struct {
	AccountEvent
	Number string `json:"number"`
}

// NewAccountDeleted builds an AccountDeleted event.
func NewAccountDeleted(accountID uuid.UUID, number string) *AccountDeleted {
	return &AccountDeleted{
		AccountEvent: newAccountEvent(accountID),
		Number:       number,
	}
}

func (e AccountDeleted) Type() string { return EventTypeAccountDeleted.String() }
