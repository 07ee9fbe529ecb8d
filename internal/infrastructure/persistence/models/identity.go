package models

import (
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/lib/pq"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Email          string                   `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash   string                   `gorm:"type:varchar(255);not null"`
	FirstName      string                   `gorm:"type:varchar(100);not null"`
	MiddleName     string                   `gorm:"type:varchar(100)"`
	LastName       string                   `gorm:"type:varchar(100)"`
	DateOfBirth    *time.Time               `gorm:"type:date"`
	BillingDetails *identity.BillingDetails `gorm:"type:jsonb;serializer:json"`
	Roles          pq.StringArray           `gorm:"type:text[];not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:     m.BaseModel.ToDomain(),
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		FirstName:      m.FirstName,
		MiddleName:     m.MiddleName,
		LastName:       m.LastName,
		DateOfBirth:    m.DateOfBirth,
		BillingDetails: m.BillingDetails,
		Roles:          []string(m.Roles),
	}
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		FirstName:      u.FirstName,
		MiddleName:     u.MiddleName,
		LastName:       u.LastName,
		DateOfBirth:    u.DateOfBirth,
		BillingDetails: u.BillingDetails,
		Roles:          pq.StringArray(u.Roles),
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}

// OTPRequestModel is the persistence model for a pending registration code.
// One row per email.
type OTPRequestModel struct {
	BaseModel
	Email     string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	Purpose   string    `gorm:"type:varchar(32);not null"`
	CodeHash  string    `gorm:"type:varchar(255);not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Attempts  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OTPRequestModel) TableName() string {
	return "otp_requests"
}

// ToDomain converts the persistence model to a domain OTPRequest.
func (m *OTPRequestModel) ToDomain() *identity.OTPRequest {
	return &identity.OTPRequest{
		BaseEntity: m.BaseModel.ToDomain(),
		Email:      m.Email,
		Purpose:    m.Purpose,
		CodeHash:   m.CodeHash,
		ExpiresAt:  m.ExpiresAt.UTC(),
		Attempts:   m.Attempts,
	}
}

// OTPRequestModelFromDomain creates a new persistence model from a domain OTPRequest.
func OTPRequestModelFromDomain(r *identity.OTPRequest) *OTPRequestModel {
	m := &OTPRequestModel{
		Email:     r.Email,
		Purpose:   r.Purpose,
		CodeHash:  r.CodeHash,
		ExpiresAt: r.ExpiresAt,
		Attempts:  r.Attempts,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
