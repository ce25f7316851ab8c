package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceRecord holds one uploaded balance figure per account per (year, month).
// The composite unique index is what guards the one-record-per-period invariant
// against concurrent uploads; the upsert relies on it.
type BalanceRecord struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID  uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_account_period" json:"accountId"`
	Year       int             `gorm:"uniqueIndex:idx_account_period" json:"year"`
	Month      int             `gorm:"uniqueIndex:idx_account_period" json:"month"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	UploadedBy uuid.UUID       `gorm:"type:uuid" json:"uploadedBy"`
	UploadedAt time.Time       `json:"uploadedAt"`

	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}
