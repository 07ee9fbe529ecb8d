// Package identity holds platform users, their payout billing details and
// the one-time codes used to register them.
package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Password cost for bcrypt
const bcryptCost = 12

// Role names carried in access tokens
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex   = regexp.MustCompile(`[a-zA-Z]`)
	numberRegex   = regexp.MustCompile(`[0-9]`)
	nameTitleCase = cases.Title(language.Und)
)

// User is a registered account. A wallet is created alongside every user.
type User struct {
	shared.BaseEntity
	Email          string
	PasswordHash   string
	FirstName      string
	MiddleName     string
	LastName       string
	DateOfBirth    *time.Time
	BillingDetails *BillingDetails
	Roles          []string
}

// Profile is the registration input
type Profile struct {
	FirstName   string
	MiddleName  string
	LastName    string
	DateOfBirth *time.Time
}

// NewUser creates a user with a hashed password and the default role
func NewUser(email, password string, profile Profile, now time.Time) (*User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	first := normalizeName(profile.FirstName)
	last := normalizeName(profile.LastName)
	if first == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "First name cannot be empty")
	}
	if len(first) > 100 || len(last) > 100 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Names cannot exceed 100 characters")
	}
	if profile.DateOfBirth != nil && profile.DateOfBirth.After(now) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Date of birth cannot be in the future")
	}

	hash, err := hashSecret(password, bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntityAt(now),
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		MiddleName:   normalizeName(profile.MiddleName),
		LastName:     last,
		DateOfBirth:  profile.DateOfBirth,
		Roles:        []string{RoleUser},
	}, nil
}

// SetBillingDetails validates and stores payout details
func (u *User) SetBillingDetails(details BillingDetails, now time.Time) error {
	normalized, err := details.Normalize()
	if err != nil {
		return err
	}
	u.BillingDetails = &normalized
	u.Touch(now)
	return nil
}

// HasBillingDetails reports whether payouts can be requested
func (u *User) HasBillingDetails() bool {
	return u.BillingDetails != nil
}

// HasRole reports whether the user holds role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// FullName joins the name parts
func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.MiddleName, u.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the email format
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid email format")
	}
	return nil
}

func normalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	return nameTitleCase.String(name)
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Password cannot exceed 72 characters")
	}
	if !letterRegex.MatchString(password) || !numberRegex.MatchString(password) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Password must contain at least one letter and one number")
	}
	return nil
}

func hashSecret(secret string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
