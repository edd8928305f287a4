package repository

import (
	"context"

	"github.com/codequest-dev/auth-service/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetOTP persists a freshly issued code and expiry for one purpose,
	// overwriting whatever was there.
	SetOTP(ctx context.Context, userID string, p domain.OTPPurpose, code string, expiresAt int64) error

	// MarkVerified flips is_verified and clears the verify OTP pair in a
	// single persisted update; the two must never be applied separately.
	MarkVerified(ctx context.Context, userID string) error

	// UpdatePassword replaces the password hash and clears the reset OTP
	// pair in a single persisted update.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
