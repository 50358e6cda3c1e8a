package cache

import (
	"context"
	"time"

	"github.com/amirasaad/accounts/pkg/domain/account"
)

// AccountCache caches account records by key. A miss is reported as a nil
// account with a nil error.
type AccountCache interface {
	Get(ctx context.Context, key string) (*account.Account, error)
	Set(ctx context.Context, key string, acc *account.Account, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// IDKey is the cache key of an account looked up by ID.
func IDKey(acc *account.Account) string {
	return "account:id:" + acc.ID.String()
}

// NumberKey is the cache key of an account looked up by number.
func NumberKey(number string) string {
	return "account:number:" + number
}
