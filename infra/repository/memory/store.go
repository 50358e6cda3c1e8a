// Package memory provides an in-memory account store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/amirasaad/accounts/pkg/domain"
	"github.com/amirasaad/accounts/pkg/domain/account"
	repo "github.com/amirasaad/accounts/pkg/repository/account"
	"github.com/google/uuid"
)

// Store implements the account repository in memory. It is safe for
// concurrent use; every read returns copies.
type Store struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]account.Account
	byNumber map[string]uuid.UUID
	order    []uuid.UUID
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]account.Account),
		byNumber: make(map[string]uuid.UUID),
	}
}

// Create implements account.Repository.
func (s *Store) Create(_ context.Context, acc *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[acc.ID]; ok {
		return fmt.Errorf("%w: account id %s", domain.ErrConflict, acc.ID)
	}
	if _, ok := s.byNumber[acc.Number]; ok {
		return fmt.Errorf("%w: account number %s", domain.ErrConflict, acc.Number)
	}
	s.accounts[acc.ID] = *acc
	s.byNumber[acc.Number] = acc.ID
	s.order = append(s.order, acc.ID)
	return nil
}

// Get implements account.Repository.
func (s *Store) Get(_ context.Context, id uuid.UUID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &acc, nil
}

// GetByNumber implements account.Repository.
func (s *Store) GetByNumber(_ context.Context, number string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byNumber[number]
	if !ok {
		return nil, domain.ErrNotFound
	}
	acc := s.accounts[id]
	return &acc, nil
}

// List implements account.Repository.
func (s *Store) List(_ context.Context) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*account.Account, 0, len(s.order))
	for _, id := range s.order {
		acc := s.accounts[id]
		out = append(out, &acc)
	}
	return out, nil
}

// Update implements account.Repository.
func (s *Store) Update(_ context.Context, acc *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.accounts[acc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if acc.Number != current.Number {
		if _, taken := s.byNumber[acc.Number]; taken {
			return fmt.Errorf("%w: account number %s", domain.ErrConflict, acc.Number)
		}
		delete(s.byNumber, current.Number)
		s.byNumber[acc.Number] = acc.ID
	}
	updated := *acc
	updated.CreatedAt = current.CreatedAt
	s.accounts[acc.ID] = updated
	return nil
}

// Delete implements account.Repository.
func (s *Store) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.accounts, id)
	delete(s.byNumber, acc.Number)
	s.order = slices.DeleteFunc(s.order, func(v uuid.UUID) bool { return v == id })
	return nil
}

// ListBalances implements account.BalanceLister. The whole snapshot is taken
// under one read lock, so it reflects a single point in time.
func (s *Store) ListBalances(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.accounts[id].Balance.String())
	}
	return out, nil
}

var _ repo.Repository = (*Store)(nil)
