package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/accounts/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxNameLength bounds the account holder name.
	MaxNameLength = 128
	// MaxNumberLength bounds the account number (IBAN upper bound).
	MaxNumberLength = 34
)

var (
	// ErrNameRequired is returned when an account has no holder name.
	ErrNameRequired = fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	// ErrNumberRequired is returned when an account has no number.
	ErrNumberRequired = fmt.Errorf("%w: number is required", domain.ErrInvalidArgument)
	// ErrNegativeBalance is returned when a balance below zero is supplied.
	ErrNegativeBalance = fmt.Errorf("%w: balance must not be negative", domain.ErrInvalidArgument)
	// ErrFieldTooLong is returned when name or number exceed their bounds.
	ErrFieldTooLong = fmt.Errorf("%w: field too long", domain.ErrInvalidArgument)
	// ErrEmptyPatch is returned when an update carries no fields.
	ErrEmptyPatch = fmt.Errorf("%w: at least one field must be provided", domain.ErrInvalidArgument)
)

// Account is a stored account record. The number is unique across accounts.
//
// Invariants:
// - Name and Number are non-empty after trimming.
// - Balance is never negative.
type Account struct {
	ID        uuid.UUID
	Name      string
	Number    string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Builder provides a fluent API for constructing valid Account instances.
type Builder struct {
	id        uuid.UUID
	name      string
	number    string
	balance   decimal.Decimal
	createdAt time.Time
	updatedAt time.Time
}

// New creates a Builder with a fresh ID and a zero balance.
func New() *Builder {
	now := time.Now().UTC()
	return &Builder{
		id:        uuid.New(),
		balance:   decimal.Zero,
		createdAt: now,
		updatedAt: now,
	}
}

// WithID sets the ID; used when hydrating from a store.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithName sets the account holder name.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithNumber sets the account number.
func (b *Builder) WithNumber(number string) *Builder {
	b.number = number
	return b
}

// WithBalance sets the opening balance.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates the invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	name, err := normalizeName(b.name)
	if err != nil {
		return nil, err
	}
	number, err := normalizeNumber(b.number)
	if err != nil {
		return nil, err
	}
	if b.balance.IsNegative() {
		return nil, ErrNegativeBalance
	}
	if b.id == uuid.Nil {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidArgument)
	}
	return &Account{
		ID:        b.id,
		Name:      name,
		Number:    number,
		Balance:   b.balance,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, nil
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name    *string
	Number  *string
	Balance *decimal.Decimal
}

// IsEmpty reports whether the patch carries no field.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Number == nil && p.Balance == nil
}

// Apply validates the patch and applies it to a copy of the account.
func (a Account) Apply(p Patch) (*Account, error) {
	if p.IsEmpty() {
		return nil, ErrEmptyPatch
	}
	if p.Name != nil {
		name, err := normalizeName(*p.Name)
		if err != nil {
			return nil, err
		}
		a.Name = name
	}
	if p.Number != nil {
		number, err := normalizeNumber(*p.Number)
		if err != nil {
			return nil, err
		}
		a.Number = number
	}
	if p.Balance != nil {
		if p.Balance.IsNegative() {
			return nil, ErrNegativeBalance
		}
		a.Balance = *p.Balance
	}
	a.UpdatedAt = time.Now().UTC()
	return &a, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if len(name) > MaxNameLength {
		return "", ErrFieldTooLong
	}
	return name, nil
}

func normalizeNumber(number string) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", ErrNumberRequired
	}
	if len(number) > MaxNumberLength {
		return "", ErrFieldTooLong
	}
	return number, nil
}
