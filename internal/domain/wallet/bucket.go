// Package wallet models user earnings balances and withdrawal transactions.
package wallet

import (
	"strings"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Bucket is one of the five balance pools of a wallet
type Bucket string

const (
	BucketAvailable Bucket = "available"
	BucketPending   Bucket = "pending"
	BucketApproved  Bucket = "approved"
	BucketPaid      Bucket = "paid"
	BucketCancelled Bucket = "cancelled"
)

// AllBuckets lists buckets in lifecycle order
var AllBuckets = []Bucket{BucketAvailable, BucketPending, BucketApproved, BucketPaid, BucketCancelled}

// IsValid checks if the bucket is a known value
func (b Bucket) IsValid() bool {
	switch b {
	case BucketAvailable, BucketPending, BucketApproved, BucketPaid, BucketCancelled:
		return true
	}
	return false
}

// Reserved reports whether the bucket backs withdrawal transactions. Pending,
// approved and paid change only together with a transaction status.
func (b Bucket) Reserved() bool {
	switch b {
	case BucketPending, BucketApproved, BucketPaid:
		return true
	}
	return false
}

// String returns the string representation
func (b Bucket) String() string {
	return string(b)
}

// Column returns the storage column of the bucket. Only valid buckets map to
// a column, so callers can safely splice it into SQL.
func (b Bucket) Column() (string, error) {
	if !b.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "unknown wallet bucket: "+string(b))
	}
	return string(b), nil
}

// ParseBucket parses a bucket name case-insensitively
func ParseBucket(s string) (Bucket, error) {
	b := Bucket(strings.ToLower(strings.TrimSpace(s)))
	if !b.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "unknown wallet bucket: "+s)
	}
	return b, nil
}

// Operation is the closed set of balance transitions
type Operation string

const (
	OperationCredit   Operation = "credit"
	OperationDebit    Operation = "debit"
	OperationTransfer Operation = "transfer"
)

// Transition is a validated balance movement. From is empty for credits,
// To is empty for debits.
type Transition struct {
	Operation Operation
	From      Bucket
	To        Bucket
	Amount    decimal.Decimal
}

// Credit builds a transition adding amount to bucket
func Credit(bucket Bucket, amount decimal.Decimal) (Transition, error) {
	t := Transition{Operation: OperationCredit, To: bucket, Amount: amount}
	return t, t.Validate()
}

// Debit builds a transition removing amount from bucket
func Debit(bucket Bucket, amount decimal.Decimal) (Transition, error) {
	t := Transition{Operation: OperationDebit, From: bucket, Amount: amount}
	return t, t.Validate()
}

// Transfer builds a transition moving amount between buckets
func Transfer(from, to Bucket, amount decimal.Decimal) (Transition, error) {
	t := Transition{Operation: OperationTransfer, From: from, To: to, Amount: amount}
	return t, t.Validate()
}

// Validate checks amount and buckets for the operation
func (t Transition) Validate() error {
	if t.Amount.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "amount cannot be negative")
	}
	switch t.Operation {
	case OperationCredit:
		if !t.To.IsValid() {
			return shared.NewDomainError(shared.CodeInvalidInput, "credit requires a valid bucket")
		}
	case OperationDebit:
		if !t.From.IsValid() {
			return shared.NewDomainError(shared.CodeInvalidInput, "debit requires a valid bucket")
		}
	case OperationTransfer:
		if !t.From.IsValid() || !t.To.IsValid() {
			return shared.NewDomainError(shared.CodeInvalidInput, "transfer requires valid buckets")
		}
		if t.From == t.To {
			return shared.NewDomainError(shared.CodeInvalidInput, "transfer requires distinct buckets")
		}
	default:
		return shared.NewDomainError(shared.CodeInvalidInput, "unknown wallet operation: "+string(t.Operation))
	}
	return nil
}

// ValidateOperator checks t as a manual operator adjustment. Operators may
// move available and cancelled funds only; reserved buckets belong to the
// withdrawal lifecycle.
func (t Transition) ValidateOperator() error {
	if err := t.Validate(); err != nil {
		return err
	}
	for _, b := range []Bucket{t.From, t.To} {
		if b.Reserved() {
			return shared.NewDomainError(shared.CodeInvalidInput,
				"bucket "+b.String()+" changes only through a withdrawal status transition")
		}
	}
	return nil
}
