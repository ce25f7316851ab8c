package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	BatchCompleted = "completed"
	BatchFailed    = "failed"
)

// UploadBatch is the audit trail for one balance-file upload: what was
// uploaded, for which period, and how the rows fared.
type UploadBatch struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FileName         string         `json:"fileName"`
	Year             int            `gorm:"index" json:"year"`
	Month            int            `gorm:"index" json:"month"`
	ProcessedRecords int            `json:"processedRecords"`
	SkippedRecords   int            `json:"skippedRecords"`
	Status           string         `gorm:"index" json:"status"`
	Errors           datatypes.JSON `json:"errors"`
	UploadedBy       uuid.UUID      `gorm:"type:uuid" json:"uploadedBy"`
	CreatedAt        time.Time      `json:"createdAt"`
}
