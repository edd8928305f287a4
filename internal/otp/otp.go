// Package otp generates and validates the short-lived numeric codes used
// for email verification and password reset. The two purposes share the
// same mechanics but live in fully independent namespaces on the user
// record.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/codequest-dev/auth-service/internal/domain"
	"github.com/codequest-dev/auth-service/internal/metrics"
	"github.com/codequest-dev/auth-service/internal/repository"
)

var (
	ErrNoActiveOTP = errors.New("no active otp")
	ErrMismatch    = errors.New("otp does not match")
	ErrExpired     = errors.New("otp expired")
)

const (
	verifyTTL = 24 * time.Hour
	resetTTL  = 15 * time.Minute

	codeMin  = 100000
	codeSpan = 900000
)

// TTL returns how long a freshly issued code stays valid for the purpose.
func TTL(p domain.OTPPurpose) time.Duration {
	if p == domain.PurposeReset {
		return resetTTL
	}
	return verifyTTL
}

// Generate returns a uniformly random 6-digit code in [100000, 999999].
// crypto/rand is non-negotiable here: with no rate limiting upstream, the
// code's unpredictability is the only thing standing between an attacker
// and a verified account.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", codeMin+n.Int64()), nil
}

// Engine issues and checks codes against a user record. Clearing a consumed
// code is deliberately not done here: the repository commits the clear in
// the same update that applies the purpose's effect.
type Engine struct {
	users repository.UserRepository
	now   func() time.Time
}

func NewEngine(users repository.UserRepository) *Engine {
	return &Engine{users: users, now: time.Now}
}

// Issue generates a code, stores it on the user's field pair for the
// purpose with expiry now+TTL, and persists the record. The code is
// returned for out-of-band delivery; it is never logged.
func (e *Engine) Issue(ctx context.Context, user *domain.User, p domain.OTPPurpose) (string, error) {
	code, err := Generate()
	if err != nil {
		return "", err
	}

	expiresAt := e.now().Add(TTL(p)).UnixMilli()
	if err := e.users.SetOTP(ctx, user.ID, p, code, expiresAt); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	user.SetOTP(p, code, expiresAt)
	metrics.OTPIssuedTotal.WithLabelValues(string(p)).Inc()
	return code, nil
}

// Check validates a submitted code against the purpose's stored pair.
// Order matters: an empty stored code is "nothing to validate", not a
// mismatch, so a consumed code can never be confused with a wrong one.
func (e *Engine) Check(user *domain.User, p domain.OTPPurpose, submitted string) error {
	stored, expiresAt := user.OTP(p)
	if stored == "" {
		metrics.OTPValidationsTotal.WithLabelValues(string(p), "no_active").Inc()
		return ErrNoActiveOTP
	}
	if stored != submitted {
		metrics.OTPValidationsTotal.WithLabelValues(string(p), "mismatch").Inc()
		return ErrMismatch
	}
	if e.now().UnixMilli() >= expiresAt {
		metrics.OTPValidationsTotal.WithLabelValues(string(p), "expired").Inc()
		return ErrExpired
	}
	metrics.OTPValidationsTotal.WithLabelValues(string(p), "ok").Inc()
	return nil
}
