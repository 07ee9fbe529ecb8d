package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository persists users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateBillingDetails(ctx context.Context, user *User) error
}

// OTPRepository persists registration codes
type OTPRepository interface {
	// Save inserts or replaces the request for its email
	Save(ctx context.Context, req *OTPRequest) error
	FindByEmail(ctx context.Context, email string) (*OTPRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes requests that expired before now and returns how many
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
