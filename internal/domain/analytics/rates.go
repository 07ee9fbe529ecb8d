package analytics

import (
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Beneficiary selects whose wallet is credited for a view
type Beneficiary string

const (
	BeneficiaryViewer Beneficiary = "viewer"
	BeneficiaryOwner  Beneficiary = "owner"
)

// IsValid checks if the beneficiary is a known value
func (b Beneficiary) IsValid() bool {
	return b == BeneficiaryViewer || b == BeneficiaryOwner
}

// Rates are the per-view earning constants, fixed per deployment
type Rates struct {
	PerView         decimal.Decimal
	ReferralPerView decimal.Decimal
	Beneficiary     Beneficiary
}

// DefaultRates returns 0.002 per view and 0.0001 per referred view, credited to the viewer
func DefaultRates() Rates {
	return Rates{
		PerView:         decimal.RequireFromString("0.002"),
		ReferralPerView: decimal.RequireFromString("0.0001"),
		Beneficiary:     BeneficiaryViewer,
	}
}

// Validate checks the rates are usable
func (r Rates) Validate() error {
	if r.PerView.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "rate per view cannot be negative")
	}
	if r.ReferralPerView.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "referral rate per view cannot be negative")
	}
	if !r.Beneficiary.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "beneficiary must be viewer or owner")
	}
	return nil
}

// BeneficiaryOf returns the user credited when viewerID views file
func (r Rates) BeneficiaryOf(file *FileRecord, viewerID uuid.UUID) uuid.UUID {
	if r.Beneficiary == BeneficiaryOwner {
		return file.CurrentOwnerID
	}
	return viewerID
}
