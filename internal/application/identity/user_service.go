package identity

import (
	"context"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService reads users and edits billing details
type UserService struct {
	users  identity.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users identity.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, logger: logger}
}

// GetUser returns a user by id
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateBillingDetails validates and stores the user's payout details
func (s *UserService) UpdateBillingDetails(ctx context.Context, userID uuid.UUID, details identity.BillingDetails) (*identity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.SetBillingDetails(details, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.users.UpdateBillingDetails(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("billing details updated",
		zap.String("user_id", userID.String()),
		zap.String("method", user.BillingDetails.Method()))
	return user, nil
}
