package identity

import (
	"regexp"
	"strings"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
)

var upiRegex = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)

// BillingDetails is where withdrawals are paid. It is snapshotted onto every
// withdrawal so later edits do not rewrite history.
type BillingDetails struct {
	AccountHolderName string `json:"accountHolderName"`
	BankName          string `json:"bankName,omitempty"`
	AccountNumber     string `json:"accountNumber,omitempty"`
	RoutingCode       string `json:"routingCode,omitempty"`
	UPIID             string `json:"upiId,omitempty"`
	PayPalEmail       string `json:"paypalEmail,omitempty"`
}

// Normalize trims the fields and checks that one payout method is complete
func (b BillingDetails) Normalize() (BillingDetails, error) {
	b.AccountHolderName = strings.TrimSpace(b.AccountHolderName)
	b.BankName = strings.TrimSpace(b.BankName)
	b.AccountNumber = strings.ReplaceAll(strings.TrimSpace(b.AccountNumber), " ", "")
	b.RoutingCode = strings.ToUpper(strings.TrimSpace(b.RoutingCode))
	b.UPIID = strings.TrimSpace(b.UPIID)
	b.PayPalEmail = NormalizeEmail(b.PayPalEmail)

	if b.AccountHolderName == "" {
		return b, shared.NewDomainError(shared.CodeInvalidInput, "Account holder name is required")
	}

	hasBank := b.AccountNumber != "" || b.RoutingCode != ""
	if hasBank && (b.AccountNumber == "" || b.RoutingCode == "") {
		return b, shared.NewDomainError(shared.CodeInvalidInput, "Bank payouts need both account number and routing code")
	}
	if b.UPIID != "" && !upiRegex.MatchString(b.UPIID) {
		return b, shared.NewDomainError(shared.CodeInvalidInput, "Invalid UPI id")
	}
	if b.PayPalEmail != "" {
		if err := ValidateEmail(b.PayPalEmail); err != nil {
			return b, shared.NewDomainError(shared.CodeInvalidInput, "Invalid PayPal email")
		}
	}
	if !hasBank && b.UPIID == "" && b.PayPalEmail == "" {
		return b, shared.NewDomainError(shared.CodeInvalidInput, "At least one payout method is required")
	}
	return b, nil
}

// Method names the payout channel, preferring bank transfer
func (b BillingDetails) Method() string {
	switch {
	case b.AccountNumber != "":
		return "bank"
	case b.UPIID != "":
		return "upi"
	case b.PayPalEmail != "":
		return "paypal"
	}
	return ""
}
