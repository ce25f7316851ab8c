package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// All returns every balance record with its account, most recent period first.
func (r *BalanceRepository) All(ctx context.Context) ([]models.BalanceRecord, error) {
	var records []models.BalanceRecord
	err := r.db.WithContext(ctx).
		Preload("Account").
		Order("year DESC, month DESC").
		Find(&records).Error
	return records, err
}

// Latest returns all records for the single most recent (year, month) pair
// present, or an empty slice when nothing has been uploaded yet.
func (r *BalanceRepository) Latest(ctx context.Context) ([]models.BalanceRecord, error) {
	var period struct {
		Year  int
		Month int
	}

	tx := r.db.WithContext(ctx).
		Model(&models.BalanceRecord{}).
		Select("year", "month").
		Order("year DESC, month DESC").
		Limit(1).
		Scan(&period)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return []models.BalanceRecord{}, nil
	}

	return r.ByPeriod(ctx, period.Year, period.Month)
}

func (r *BalanceRepository) ByPeriod(ctx context.Context, year, month int) ([]models.BalanceRecord, error) {
	records := make([]models.BalanceRecord, 0)
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("year = ? AND month = ?", year, month).
		Find(&records).Error
	return records, err
}
