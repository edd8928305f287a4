package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)

// User is the sole persistent entity. OTP expiries are epoch milliseconds;
// 0 means "not set", and an empty code string means "no active OTP".
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsVerified   bool

	VerifyOTP          string
	VerifyOTPExpiresAt int64
	ResetOTP           string
	ResetOTPExpiresAt  int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
