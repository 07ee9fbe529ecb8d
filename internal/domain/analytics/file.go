package analytics

import (
	"strings"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source tells whether a file was uploaded or cloned from another user's file
type Source string

const (
	SourceOriginal Source = "ORIGINAL"
	SourceClone    Source = "CLONE"
)

// IsValid checks if the source is a known value
func (s Source) IsValid() bool {
	return s == SourceOriginal || s == SourceClone
}

// String returns the string representation
func (s Source) String() string {
	return string(s)
}

// FileRecord is the metadata of a hosted file. TotalViews and ReferralEarnings
// are lifetime counters changed only by the ledger.
type FileRecord struct {
	shared.BaseEntity
	Name             string
	MimeType         string
	SizeBytes        int64
	StorageKey       string
	CurrentOwnerID   uuid.UUID
	OriginalOwnerID  uuid.UUID
	Source           Source
	OriginalFileID   *uuid.UUID
	UploadedDay      time.Time
	TotalViews       int64
	ReferralEarnings decimal.Decimal
}

// NewOriginalFile registers an uploaded file owned by ownerID
func NewOriginalFile(ownerID uuid.UUID, name, mimeType string, sizeBytes int64, storageKey string, now time.Time) (*FileRecord, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "owner is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "file name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "file name cannot exceed 255 characters")
	}
	if sizeBytes < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "file size cannot be negative")
	}

	return &FileRecord{
		BaseEntity:       shared.NewBaseEntityAt(now),
		Name:             name,
		MimeType:         strings.TrimSpace(mimeType),
		SizeBytes:        sizeBytes,
		StorageKey:       strings.TrimSpace(storageKey),
		CurrentOwnerID:   ownerID,
		OriginalOwnerID:  ownerID,
		Source:           SourceOriginal,
		UploadedDay:      DayOf(now),
		ReferralEarnings: decimal.Zero,
	}, nil
}

// Clone creates a copy of f owned by newOwnerID. The clone always points at
// the root original so referral credit lands on the file that was uploaded.
func (f *FileRecord) Clone(newOwnerID uuid.UUID, now time.Time) (*FileRecord, error) {
	if newOwnerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "owner is required")
	}
	if newOwnerID == f.CurrentOwnerID {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "file is already owned by this user")
	}

	rootID := f.ID
	if f.Source == SourceClone && f.OriginalFileID != nil {
		rootID = *f.OriginalFileID
	}

	return &FileRecord{
		BaseEntity:       shared.NewBaseEntityAt(now),
		Name:             f.Name,
		MimeType:         f.MimeType,
		SizeBytes:        f.SizeBytes,
		StorageKey:       f.StorageKey,
		CurrentOwnerID:   newOwnerID,
		OriginalOwnerID:  f.OriginalOwnerID,
		Source:           SourceClone,
		OriginalFileID:   &rootID,
		UploadedDay:      DayOf(now),
		ReferralEarnings: decimal.Zero,
	}, nil
}

// ReferralTarget returns the original file and owner to credit when f is viewed.
// ok is false for originals and for clones now owned by their original owner.
func (f *FileRecord) ReferralTarget() (fileID, ownerID uuid.UUID, ok bool) {
	if f.Source != SourceClone || f.OriginalFileID == nil {
		return uuid.Nil, uuid.Nil, false
	}
	if f.OriginalOwnerID == f.CurrentOwnerID {
		return uuid.Nil, uuid.Nil, false
	}
	return *f.OriginalFileID, f.OriginalOwnerID, true
}

// IsClone reports whether the file was cloned
func (f *FileRecord) IsClone() bool {
	return f.Source == SourceClone
}
