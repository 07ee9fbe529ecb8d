package wallet

import (
	"strings"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a withdrawal
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// ParseStatus parses a status case-insensitively
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "unknown transaction status: "+s)
	}
	return st, nil
}

// statusBuckets maps each allowed status change to the bucket its funds move between
var statusBuckets = map[Status]map[Status][2]Bucket{
	StatusPending: {
		StatusApproved:  {BucketPending, BucketApproved},
		StatusCancelled: {BucketPending, BucketCancelled},
	},
	StatusApproved: {
		StatusPaid:      {BucketApproved, BucketPaid},
		StatusCancelled: {BucketApproved, BucketCancelled},
	},
}

// CanTransitionTo reports whether the lifecycle allows moving to next
func (s Status) CanTransitionTo(next Status) bool {
	_, ok := statusBuckets[s][next]
	return ok
}

// BucketOf returns the wallet bucket holding the funds of a withdrawal in status s
func (s Status) BucketOf() Bucket {
	switch s {
	case StatusApproved:
		return BucketApproved
	case StatusPaid:
		return BucketPaid
	case StatusCancelled:
		return BucketCancelled
	default:
		return BucketPending
	}
}

// WalletTransaction is a withdrawal request: a claim on the pending bucket.
// Only Status, Note and ReferenceID change after creation.
type WalletTransaction struct {
	shared.BaseEntity
	UserID          uuid.UUID
	Amount          decimal.Decimal
	BillingDetails  identity.BillingDetails
	Note            string
	ReferenceID     string
	Status          Status
	StatusChangedAt *time.Time
}

// NewWithdrawal creates a PENDING withdrawal snapshotting the billing details
func NewWithdrawal(userID uuid.UUID, amount decimal.Decimal, billing identity.BillingDetails, note string, now time.Time) (*WalletTransaction, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "user is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "withdrawal amount must be positive")
	}
	note = strings.TrimSpace(note)
	if len(note) > 500 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "note cannot exceed 500 characters")
	}
	return &WalletTransaction{
		BaseEntity:     shared.NewBaseEntityAt(now),
		UserID:         userID,
		Amount:         amount,
		BillingDetails: billing,
		Note:           note,
		Status:         StatusPending,
	}, nil
}

// TransitionTo moves the withdrawal to next and returns the wallet transfer
// that must be applied in the same unit of work.
func (t *WalletTransaction) TransitionTo(next Status, now time.Time) (Transition, error) {
	buckets, ok := statusBuckets[t.Status][next]
	if !ok {
		return Transition{}, shared.NewDomainError(shared.CodeInvalidState,
			"cannot move withdrawal from "+t.Status.String()+" to "+next.String())
	}
	move, err := Transfer(buckets[0], buckets[1], t.Amount)
	if err != nil {
		return Transition{}, err
	}
	changed := now.UTC()
	t.Status = next
	t.StatusChangedAt = &changed
	t.Touch(now)
	return move, nil
}

// UpdateDetails applies operator edits to note and reference id; nil leaves a field unchanged
func (t *WalletTransaction) UpdateDetails(note, referenceID *string, now time.Time) error {
	if note != nil {
		n := strings.TrimSpace(*note)
		if len(n) > 500 {
			return shared.NewDomainError(shared.CodeInvalidInput, "note cannot exceed 500 characters")
		}
		t.Note = n
	}
	if referenceID != nil {
		r := strings.TrimSpace(*referenceID)
		if len(r) > 100 {
			return shared.NewDomainError(shared.CodeInvalidInput, "reference id cannot exceed 100 characters")
		}
		t.ReferenceID = r
	}
	t.Touch(now)
	return nil
}
