package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codequest-dev/auth-service/internal/domain"
	"github.com/codequest-dev/auth-service/internal/email"
	"github.com/codequest-dev/auth-service/internal/metrics"
	"github.com/codequest-dev/auth-service/internal/otp"
	"github.com/codequest-dev/auth-service/internal/password"
	"github.com/codequest-dev/auth-service/internal/repository"
	"github.com/codequest-dev/auth-service/internal/token"
	"github.com/google/uuid"
)

// AuthUsecase orchestrates registration, login, email verification and
// password reset over the user store, the OTP engine, the token issuer and
// the mail sender.
type AuthUsecase struct {
	users  repository.UserRepository
	email  email.Sender
	tokens *token.Issuer
	otp    *otp.Engine
	logger *slog.Logger
}

func NewAuthUsecase(users repository.UserRepository, emailSender email.Sender, tokens *token.Issuer, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		email:  emailSender,
		tokens: tokens,
		otp:    otp.NewEngine(users),
		logger: logger.With("component", "auth_usecase"),
	}
}

// Register creates an unverified account and returns a fresh session token.
// The welcome email is best-effort: a delivery failure is logged but never
// rolls back the created account.
func (u *AuthUsecase) Register(ctx context.Context, name, emailAddr, plainPassword string) (*domain.User, string, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        emailAddr,
		PasswordHash: hash,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, "", domain.ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	metrics.RegistrationsTotal.Inc()

	signed, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	subject, body := email.WelcomeMessage(name, emailAddr)
	if err := u.email.Send(ctx, emailAddr, subject, body); err != nil {
		u.logger.Error("send welcome email", "user_id", user.ID, "error", err)
		metrics.EmailsSentTotal.WithLabelValues("welcome", "error").Inc()
	} else {
		metrics.EmailsSentTotal.WithLabelValues("welcome", "ok").Inc()
	}

	return user, signed, nil
}

// Login verifies credentials and returns a fresh session token. Unknown
// email and wrong password both come back as ErrInvalidCredentials, so the
// response can never be used to enumerate accounts.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, plainPassword string) (string, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !password.Verify(plainPassword, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return u.tokens.Issue(user.ID)
}

// SendVerifyOTP issues a 24h verification code for the session user and
// mails it.
func (u *AuthUsecase) SendVerifyOTP(ctx context.Context, userID string) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}

	code, err := u.otp.Issue(ctx, user, domain.PurposeVerify)
	if err != nil {
		return err
	}

	subject, body := email.VerifyOTPMessage(code)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("verify_otp", "error").Inc()
		return fmt.Errorf("send verify otp: %w", err)
	}
	metrics.EmailsSentTotal.WithLabelValues("verify_otp", "ok").Inc()
	return nil
}

// VerifyEmail checks the submitted code and, on success, marks the account
// verified. The repository clears the consumed code in the same update.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, userID, submitted string) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := u.otp.Check(user, domain.PurposeVerify, submitted); err != nil {
		return err
	}

	if err := u.users.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	user.IsVerified = true
	user.ClearOTP(domain.PurposeVerify)
	return nil
}

// SendResetOTP issues a 15-minute reset code for the account with the given
// email and mails it.
func (u *AuthUsecase) SendResetOTP(ctx context.Context, emailAddr string) error {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	code, err := u.otp.Issue(ctx, user, domain.PurposeReset)
	if err != nil {
		return err
	}

	subject, body := email.ResetOTPMessage(code)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("reset_otp", "error").Inc()
		return fmt.Errorf("send reset otp: %w", err)
	}
	metrics.EmailsSentTotal.WithLabelValues("reset_otp", "ok").Inc()
	return nil
}

// ResetPassword checks the submitted reset code and, on success, replaces
// the password hash. The repository clears the consumed code in the same
// update.
func (u *AuthUsecase) ResetPassword(ctx context.Context, emailAddr, submitted, newPassword string) error {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	if err := u.otp.Check(user, domain.PurposeReset, submitted); err != nil {
		return err
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := u.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	user.PasswordHash = hash
	user.ClearOTP(domain.PurposeReset)
	return nil
}
