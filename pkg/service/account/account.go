// Package account provides the account use cases: creating, reading,
// updating and deleting account records, and announcing each committed
// change on the event bus.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/accounts/pkg/domain"
	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/amirasaad/accounts/pkg/dto"
	"github.com/amirasaad/accounts/pkg/eventbus"
	repo "github.com/amirasaad/accounts/pkg/repository/account"
	"github.com/google/uuid"
)

// Service provides business logic for account records.
type Service struct {
	repo     repo.Repository
	eventBus eventbus.Bus
	logger   *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(r repo.Repository, bus eventbus.Bus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     r,
		eventBus: bus,
		logger:   logger.With("service", "account"),
	}
}

// CreateAccount validates and stores a new account. A number that is
// already taken yields domain.ErrConflict.
func (s *Service) CreateAccount(ctx context.Context, in dto.AccountCreate) (*account.Account, error) {
	logger := s.logger.With("number", in.Number)

	acc, err := account.New().
		WithName(in.Name).
		WithNumber(in.Number).
		WithBalance(in.Balance).
		Build()
	if err != nil {
		logger.Warn("CreateAccount rejected", "error", err)
		return nil, err
	}
	if err := s.ensureNumberFree(ctx, acc.Number, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		logger.Error("CreateAccount failed: repo create error", "error", err)
		return nil, err
	}

	logger.Info("account created", "account_id", acc.ID)
	s.emit(ctx, events.NewAccountCreated(acc.ID, acc.Name, acc.Number, acc.Balance))
	return acc, nil
}

// GetAccount returns the account with the given ID.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.repo.Get(ctx, id)
}

// GetAccountByNumber returns the account with the given number.
func (s *Service) GetAccountByNumber(ctx context.Context, number string) (*account.Account, error) {
	return s.repo.GetByNumber(ctx, number)
}

// ListAccounts returns every account in creation order.
func (s *Service) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	return s.repo.List(ctx)
}

// UpdateAccount applies a partial update to an existing account.
func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, in dto.AccountUpdate) (*account.Account, error) {
	logger := s.logger.With("account_id", id)

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := current.Apply(account.Patch{
		Name:    in.Name,
		Number:  in.Number,
		Balance: in.Balance,
	})
	if err != nil {
		logger.Warn("UpdateAccount rejected", "error", err)
		return nil, err
	}
	if updated.Number != current.Number {
		if err := s.ensureNumberFree(ctx, updated.Number, id); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		logger.Error("UpdateAccount failed: repo update error", "error", err)
		return nil, err
	}

	logger.Info("account updated")
	s.emit(ctx, events.NewAccountUpdated(updated.ID, updated.Name, updated.Number, updated.Balance))
	return updated, nil
}

// DeleteAccount removes the account with the given ID and reports whether
// it was removed. A missing account yields domain.ErrNotFound.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) (bool, error) {
	acc, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("DeleteAccount failed: repo delete error", "account_id", id, "error", err)
		return false, err
	}

	s.logger.Info("account deleted", "account_id", id)
	s.emit(ctx, events.NewAccountDeleted(acc.ID, acc.Number))
	return true, nil
}

func (s *Service) ensureNumberFree(ctx context.Context, number string, owner uuid.UUID) error {
	existing, err := s.repo.GetByNumber(ctx, number)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == owner:
		return nil
	default:
		return fmt.Errorf("%w: account number %q is already in use", domain.ErrConflict, number)
	}
}

// emit publishes an event for a change that is already committed. A
// failure is logged and never undoes the write.
func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Emit(ctx, event); err != nil {
		s.logger.Error("failed to emit event", "type", event.Type(), "error", err)
	}
}
