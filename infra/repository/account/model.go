package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents an account record in the database.
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"type:varchar(128);not null"`
	Number    string          `gorm:"type:varchar(34);not null;uniqueIndex"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`
	CreatedAt time.Time       `gorm:"index"`
	UpdatedAt time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}
