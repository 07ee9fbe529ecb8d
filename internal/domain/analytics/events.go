package analytics

import (
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeViewRecorded     = "analytics.view_recorded"
	EventTypeReferralCredited = "analytics.referral_credited"
	EventTypeReferralFailed   = "analytics.referral_failed"

	AggregateTypeFile = "FileRecord"
)

// ViewRecordedEvent is published after a view has been committed
type ViewRecordedEvent struct {
	shared.BaseDomainEvent
	FileID        uuid.UUID       `json:"file_id"`
	ViewerID      uuid.UUID       `json:"viewer_id"`
	BeneficiaryID uuid.UUID       `json:"beneficiary_id"`
	Day           time.Time       `json:"day"`
	Earnings      decimal.Decimal `json:"earnings"`
}

// NewViewRecordedEvent creates a ViewRecordedEvent
func NewViewRecordedEvent(fileID, viewerID, beneficiaryID uuid.UUID, day time.Time, earnings decimal.Decimal) *ViewRecordedEvent {
	return &ViewRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeViewRecorded, AggregateTypeFile, fileID),
		FileID:          fileID,
		ViewerID:        viewerID,
		BeneficiaryID:   beneficiaryID,
		Day:             day,
		Earnings:        earnings,
	}
}

// ReferralCreditedEvent is published when a clone view credited its original owner
type ReferralCreditedEvent struct {
	shared.BaseDomainEvent
	CloneFileID     uuid.UUID       `json:"clone_file_id"`
	OriginalFileID  uuid.UUID       `json:"original_file_id"`
	OriginalOwnerID uuid.UUID       `json:"original_owner_id"`
	Day             time.Time       `json:"day"`
	Amount          decimal.Decimal `json:"amount"`
}

// NewReferralCreditedEvent creates a ReferralCreditedEvent
func NewReferralCreditedEvent(cloneID, originalID, ownerID uuid.UUID, day time.Time, amount decimal.Decimal) *ReferralCreditedEvent {
	return &ReferralCreditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReferralCredited, AggregateTypeFile, originalID),
		CloneFileID:     cloneID,
		OriginalFileID:  originalID,
		OriginalOwnerID: ownerID,
		Day:             day,
		Amount:          amount,
	}
}

// ReferralFailedEvent is published when referral crediting was rolled back
type ReferralFailedEvent struct {
	shared.BaseDomainEvent
	CloneFileID uuid.UUID `json:"clone_file_id"`
	Reason      string    `json:"reason"`
}

// NewReferralFailedEvent creates a ReferralFailedEvent
func NewReferralFailedEvent(cloneID uuid.UUID, reason string) *ReferralFailedEvent {
	return &ReferralFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReferralFailed, AggregateTypeFile, cloneID),
		CloneFileID:     cloneID,
		Reason:          reason,
	}
}
