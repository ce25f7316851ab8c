package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
)

type UploadBatchRepository struct {
	db *gorm.DB
}

func NewUploadBatchRepository(db *gorm.DB) *UploadBatchRepository {
	return &UploadBatchRepository{db: db}
}

// Recent returns the newest upload batches first.
func (r *UploadBatchRepository) Recent(ctx context.Context, limit int) ([]models.UploadBatch, error) {
	batches := make([]models.UploadBatch, 0)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&batches).Error
	return batches, err
}
