package account

import (
	"context"

	infrarepo "github.com/amirasaad/accounts/infra/repository"
	"github.com/amirasaad/accounts/pkg/domain"
	"github.com/amirasaad/accounts/pkg/domain/account"
	repo "github.com/amirasaad/accounts/pkg/repository/account"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const creationOrder = "created_at ASC, id ASC"

type repository struct {
	db *gorm.DB
}

// New creates a GORM-backed account repository.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements account.Repository.
func (r *repository) Create(ctx context.Context, acc *account.Account) error {
	m := mapDomainToModel(acc)
	return infrarepo.WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

// Get implements account.Repository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := infrarepo.WrapError(func() error {
		return r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

// GetByNumber implements account.Repository.
func (r *repository) GetByNumber(ctx context.Context, number string) (*account.Account, error) {
	var m Account
	if err := infrarepo.WrapError(func() error {
		return r.db.WithContext(ctx).First(&m, "number = ?", number).Error
	}); err != nil {
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

// List implements account.Repository.
func (r *repository) List(ctx context.Context) ([]*account.Account, error) {
	var models []Account
	if err := infrarepo.WrapError(func() error {
		return r.db.WithContext(ctx).Order(creationOrder).Find(&models).Error
	}); err != nil {
		return nil, err
	}
	result := make([]*account.Account, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result, nil
}

// Update implements account.Repository.
func (r *repository) Update(ctx context.Context, acc *account.Account) error {
	return infrarepo.WrapError(func() error {
		res := r.db.WithContext(ctx).
			Model(&Account{}).
			Where("id = ?", acc.ID).
			Updates(map[string]any{
				"name":       acc.Name,
				"number":     acc.Number,
				"balance":    acc.Balance,
				"updated_at": acc.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// Delete implements account.Repository.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return infrarepo.WrapError(func() error {
		res := r.db.WithContext(ctx).Delete(&Account{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// ListBalances implements account.BalanceLister. A single SELECT is one
// statement-level snapshot of the table.
func (r *repository) ListBalances(ctx context.Context) ([]string, error) {
	var balances []string
	if err := infrarepo.WrapError(func() error {
		return r.db.WithContext(ctx).
			Model(&Account{}).
			Order(creationOrder).
			Pluck("balance", &balances).Error
	}); err != nil {
		return nil, err
	}
	return balances, nil
}

func mapDomainToModel(acc *account.Account) Account {
	return Account{
		ID:        acc.ID,
		Name:      acc.Name,
		Number:    acc.Number,
		Balance:   acc.Balance,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}
}

func mapModelToDomain(m *Account) *account.Account {
	return &account.Account{
		ID:        m.ID,
		Name:      m.Name,
		Number:    m.Number,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
