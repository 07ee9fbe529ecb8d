package dto

import (
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/analytics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterFileRequest records an upload already stored in object storage
type RegisterFileRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	MimeType   string `json:"mime_type" binding:"omitempty,max=127"`
	SizeBytes  int64  `json:"size_bytes" binding:"gte=0"`
	StorageKey string `json:"storage_key" binding:"required,max=1024"`
}

// FileResponse is a file with its lifetime counters
type FileResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	MimeType         string          `json:"mime_type,omitempty"`
	SizeBytes        int64           `json:"size_bytes"`
	StorageKey       string          `json:"storage_key"`
	Source           string          `json:"source"`
	CurrentOwnerID   uuid.UUID       `json:"current_owner_id"`
	OriginalOwnerID  uuid.UUID       `json:"original_owner_id"`
	OriginalFileID   *uuid.UUID      `json:"original_file_id,omitempty"`
	UploadedDay      string          `json:"uploaded_day"`
	TotalViews       int64           `json:"total_views"`
	ReferralEarnings decimal.Decimal `json:"referral_earnings"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToFileResponse converts a file record
func ToFileResponse(f *analytics.FileRecord) FileResponse {
	return FileResponse{
		ID:               f.ID,
		Name:             f.Name,
		MimeType:         f.MimeType,
		SizeBytes:        f.SizeBytes,
		StorageKey:       f.StorageKey,
		Source:           f.Source.String(),
		CurrentOwnerID:   f.CurrentOwnerID,
		OriginalOwnerID:  f.OriginalOwnerID,
		OriginalFileID:   f.OriginalFileID,
		UploadedDay:      formatDay(f.UploadedDay),
		TotalViews:       f.TotalViews,
		ReferralEarnings: f.ReferralEarnings,
		CreatedAt:        f.CreatedAt,
	}
}
