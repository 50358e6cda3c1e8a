// Package decorator provides decorators for cross-cutting concerns around
// the account repository.
package decorator

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/accounts/pkg/cache"
	"github.com/amirasaad/accounts/pkg/domain/account"
	repo "github.com/amirasaad/accounts/pkg/repository/account"
	"github.com/google/uuid"
)

// CachedRepository is a read-through cache in front of an account
// repository. Lookups by ID and by number are served from the cache; every
// write invalidates the keys of the account it touched.
//
// List and ListBalances always go to the underlying repository so that a
// balance aggregation reads a fresh snapshot.
//
// Cache failures are logged and never fail the call.
type CachedRepository struct {
	repo.Repository
	cache  cache.AccountCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps inner with c. Entries live for ttl.
func NewCachedRepository(inner repo.Repository, c cache.AccountCache, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRepository{
		Repository: inner,
		cache:      c,
		ttl:        ttl,
		logger:     logger.With("component", "account-cache"),
	}
}

// Get implements account.Repository.
func (r *CachedRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	key := cache.IDKey(&account.Account{ID: id})
	if acc := r.lookup(ctx, key); acc != nil {
		return acc, nil
	}
	acc, err := r.Repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, acc)
	return acc, nil
}

// GetByNumber implements account.Repository.
func (r *CachedRepository) GetByNumber(ctx context.Context, number string) (*account.Account, error) {
	if acc := r.lookup(ctx, cache.NumberKey(number)); acc != nil {
		return acc, nil
	}
	acc, err := r.Repository.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	r.store(ctx, acc)
	return acc, nil
}

// Update implements account.Repository.
func (r *CachedRepository) Update(ctx context.Context, acc *account.Account) error {
	keys := []string{cache.IDKey(acc), cache.NumberKey(acc.Number)}
	// The previous number still points at this account until invalidated.
	if prev, err := r.Repository.Get(ctx, acc.ID); err == nil && prev.Number != acc.Number {
		keys = append(keys, cache.NumberKey(prev.Number))
	}
	if err := r.Repository.Update(ctx, acc); err != nil {
		return err
	}
	r.invalidate(ctx, keys...)
	return nil
}

// Delete implements account.Repository.
func (r *CachedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	keys := []string{cache.IDKey(&account.Account{ID: id})}
	if prev, err := r.Repository.Get(ctx, id); err == nil {
		keys = append(keys, cache.NumberKey(prev.Number))
	}
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, keys...)
	return nil
}

func (r *CachedRepository) lookup(ctx context.Context, key string) *account.Account {
	acc, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("cache lookup failed", "key", key, "error", err)
		return nil
	}
	return acc
}

func (r *CachedRepository) store(ctx context.Context, acc *account.Account) {
	for _, key := range []string{cache.IDKey(acc), cache.NumberKey(acc.Number)} {
		if err := r.cache.Set(ctx, key, acc, r.ttl); err != nil {
			r.logger.Warn("cache store failed", "key", key, "error", err)
		}
	}
}

func (r *CachedRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}
