package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/services/upload"
)

// Store is the gorm-backed unit of work for balance uploads.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ upload.Store = (*Store)(nil)

// Transact runs fn against a transaction-scoped Store; all writes commit or
// roll back together.
func (s *Store) Transact(ctx context.Context, fn func(upload.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) ActiveAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&accounts).Error
	return accounts, err
}

// UpsertBalance inserts or updates the single balance record for
// (account, year, month). The composite unique index resolves concurrent
// uploads for the same tuple at the database.
func (s *Store) UpsertBalance(ctx context.Context, accountID uuid.UUID, year, month int, amount decimal.Decimal, uploadedBy uuid.UUID) error {
	record := models.BalanceRecord{
		ID:         uuid.New(),
		AccountID:  accountID,
		Year:       year,
		Month:      month,
		Amount:     amount,
		UploadedBy: uploadedBy,
		UploadedAt: time.Now().UTC(),
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "account_id"},
			{Name: "year"},
			{Name: "month"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "uploaded_by", "uploaded_at"}),
	}).Create(&record).Error
}

func (s *Store) RecordBatch(ctx context.Context, batch *models.UploadBatch) error {
	return s.db.WithContext(ctx).Create(batch).Error
}
