package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/codequest-dev/auth-service/internal/domain"
	"github.com/codequest-dev/auth-service/internal/otp"
	"github.com/codequest-dev/auth-service/internal/password"
	"github.com/codequest-dev/auth-service/internal/token"
	"github.com/codequest-dev/auth-service/internal/usecase"
)

// ---- fakes ----

// memUserRepo is an in-memory UserRepository honoring the same contracts
// as the postgres implementation: unique emails, and effect+clear applied
// as one update.
type memUserRepo struct {
	byID map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	clone := *u
	r.byID[u.ID] = &clone
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, okFound := r.byID[id]
	if !okFound {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) SetOTP(_ context.Context, userID string, p domain.OTPPurpose, code string, expiresAt int64) error {
	u, okFound := r.byID[userID]
	if !okFound {
		return domain.ErrUserNotFound
	}
	u.SetOTP(p, code, expiresAt)
	return nil
}

func (r *memUserRepo) MarkVerified(_ context.Context, userID string) error {
	u, okFound := r.byID[userID]
	if !okFound {
		return domain.ErrUserNotFound
	}
	u.IsVerified = true
	u.ClearOTP(domain.PurposeVerify)
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u, okFound := r.byID[userID]
	if !okFound {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ClearOTP(domain.PurposeReset)
	return nil
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
	sent []string // subjects, in order
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	s.sent = append(s.sent, subject)
	if s.send != nil {
		return s.send(ctx, to, subject, body)
	}
	return nil
}

// ---- helpers ----

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

func newAuth(repo *memUserRepo, sender *fakeEmailSender) *usecase.AuthUsecase {
	tokens := token.NewIssuer([]byte(testJWTKey))
	return usecase.NewAuthUsecase(repo, sender, tokens, slog.Default())
}

func mustRegister(t *testing.T, auth *usecase.AuthUsecase, name, email, pass string) *domain.User {
	t.Helper()
	user, _, err := auth.Register(context.Background(), name, email, pass)
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

// ---- Register ----

func TestRegister_CreatesUnverifiedAccountWithSession(t *testing.T) {
	repo := newMemUserRepo()
	sender := &fakeEmailSender{}
	auth := newAuth(repo, sender)

	user, signed, err := auth.Register(context.Background(), "Ada", "ada@x.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.IsVerified {
		t.Error("new account is verified")
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret1" {
		t.Errorf("password stored badly: %q", user.PasswordHash)
	}

	// Returned token resolves back to the new user.
	tokens := token.NewIssuer([]byte(testJWTKey))
	sub, err := tokens.Verify(signed)
	if err != nil || sub != user.ID {
		t.Errorf("session token subject = %q (%v), want %q", sub, err, user.ID)
	}

	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "Welcome") {
		t.Errorf("welcome email not sent, got %v", sender.sent)
	}
}

func TestRegister_DuplicateEmailFails(t *testing.T) {
	auth := newAuth(newMemUserRepo(), &fakeEmailSender{})
	mustRegister(t, auth, "Ada", "ada@x.com", "secret1")

	_, _, err := auth.Register(context.Background(), "Ada Again", "ada@x.com", "other")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, got %v", err)
	}
}

func TestRegister_WelcomeEmailFailureDoesNotRollBack(t *testing.T) {
	repo := newMemUserRepo()
	sender := &fakeEmailSender{
		send: func(context.Context, string, string, string) error {
			return errors.New("smtp unavailable")
		},
	}
	auth := newAuth(repo, sender)

	user, signed, err := auth.Register(context.Background(), "Ada", "ada@x.com", "secret1")
	if err != nil {
		t.Fatalf("register failed on mail error: %v", err)
	}
	if signed == "" {
		t.Error("no session token despite successful registration")
	}
	if _, err := repo.FindByID(context.Background(), user.ID); err != nil {
		t.Errorf("account missing after mail failure: %v", err)
	}
}

// ---- Login ----

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	auth := newAuth(newMemUserRepo(), &fakeEmailSender{})
	mustRegister(t, auth, "Ada", "ada@x.com", "secret1")

	_, errUnknown := auth.Login(context.Background(), "nobody@x.com", "secret1")
	_, errWrongPw := auth.Login(context.Background(), "ada@x.com", "wrong")

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: want ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: want ErrInvalidCredentials, got %v", errWrongPw)
	}
}

func TestLogin_Succeeds(t *testing.T) {
	auth := newAuth(newMemUserRepo(), &fakeEmailSender{})
	user := mustRegister(t, auth, "Ada", "ada@x.com", "secret1")

	signed, err := auth.Login(context.Background(), "ada@x.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokens := token.NewIssuer([]byte(testJWTKey))
	sub, err := tokens.Verify(signed)
	if err != nil || sub != user.ID {
		t.Errorf("token subject = %q (%v), want %q", sub, err, user.ID)
	}
}

// ---- Email verification ----

func TestVerificationFlow_EndToEnd(t *testing.T) {
	repo := newMemUserRepo()
	sender := &fakeEmailSender{}
	auth := newAuth(repo, sender)
	user := mustRegister(t, auth, "Ada", "ada@x.com", "secret1")

	if err := auth.SendVerifyOTP(context.Background(), user.ID); err != nil {
		t.Fatalf("send verify otp: %v", err)
	}

	stored := repo.byID[user.ID]
	code := stored.VerifyOTP
	if code == "" {
		t.Fatal("no verify code stored")
	}
	if stored.VerifyOTPExpiresAt <= time.Now().UnixMilli() {
		t.Fatal("verify code already expired")
	}

	if err := auth.VerifyEmail(context.Background(), user.ID, code); err != nil {
		t.Fatalf("verify email: %v", err)
	}

	after, _ := repo.FindByID(context.Background(), user.ID)
	if !after.IsVerified {
		t.Error("account not marked verified")
	}
	if after.VerifyOTP != "" || after.VerifyOTPExpiresAt != 0 {
		t.Errorf("verify otp not cleared: %q/%d", after.VerifyOTP, after.VerifyOTPExpiresAt)
	}

	// Replaying the consumed code fails as "no active otp", not mismatch.
	err := auth.VerifyEmail(context.Background(), user.ID, code)
	if !errors.Is(err, otp.ErrNoActiveOTP) {
		t.Errorf("replay: want ErrNoActiveOTP, got %v", err)
	}
}

func TestSendVerifyOTP_AlreadyVerified(t *testing.T) {
	repo := newMemUserRepo()
	auth := newAuth(repo, &fakeEmailSender{})
	user := mustRegister(t, auth, "Ada", "ada@x.com", "secret1")
	repo.byID[user.ID].IsVerified = true

	if err := auth.SendVerifyOTP(context.Background(), user.ID); !errors.Is(err, domain.ErrAlreadyVerified) {
		t.Errorf("want ErrAlreadyVerified, got %v", err)
	}
}

func TestSendVerifyOTP_MailFailurePropagates(t *testing.T) {
	repo := newMemUserRepo()
	sendErr := errors.New("resend is down")
	sender := &fakeEmailSender{}
	auth := newAuth(repo, sender)
	user := mustRegister(t, auth, "Ada", "ada@x.com", "secret1")

	sender.send = func(context.Context, string, string, string) error { return sendErr }
	if err := auth.SendVerifyOTP(context.Background(), user.ID); !errors.Is(err, sendErr) {
		t.Errorf("want wrapped sendErr, got %v", err)
	}
}

func TestVerifyEmail_MismatchLeavesStatePending(t *testing.T) {
	repo := newMemUserRepo()
	auth := newAuth(repo, &fakeEmailSender{})
	user := mustRegister(t, auth, "Ada", "ada@x.com", "secret1")

	if err := auth.SendVerifyOTP(context.Background(), user.ID); err != nil {
		t.Fatalf("send verify otp: %v", err)
	}

	err := auth.VerifyEmail(context.Background(), user.ID, "000000")
	if !errors.Is(err, otp.ErrMismatch) {
		t.Errorf("want ErrMismatch, got %v", err)
	}

	after, _ := repo.FindByID(context.Background(), user.ID)
	if after.IsVerified {
		t.Error("mismatched code verified the account")
	}
	if after.VerifyOTP == "" {
		t.Error("pending code cleared by failed attempt")
	}
}

func TestVerifyEmail_UnknownUser(t *testing.T) {
	auth := newAuth(newMemUserRepo(), &fakeEmailSender{})
	err := auth.VerifyEmail(context.Background(), "no-such-id", "482913")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

// ---- Password reset ----

func TestResetFlow_EndToEnd(t *testing.T) {
	repo := newMemUserRepo()
	auth := newAuth(repo, &fakeEmailSender{})
	user := mustRegister(t, auth, "Ada", "ada@x.com", "secret1")

	if err := auth.SendResetOTP(context.Background(), "ada@x.com"); err != nil {
		t.Fatalf("send reset otp: %v", err)
	}
	code := repo.byID[user.ID].ResetOTP

	if err := auth.ResetPassword(context.Background(), "ada@x.com", code, "newSecret2"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	after, _ := repo.FindByID(context.Background(), user.ID)
	if after.ResetOTP != "" || after.ResetOTPExpiresAt != 0 {
		t.Errorf("reset otp not cleared: %q/%d", after.ResetOTP, after.ResetOTPExpiresAt)
	}
	if !password.Verify("newSecret2", after.PasswordHash) {
		t.Error("new password does not verify")
	}
	if password.Verify("secret1", after.PasswordHash) {
		t.Error("old password still verifies")
	}

	// Old and new sessions: login must work with the new password only.
	if _, err := auth.Login(context.Background(), "ada@x.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password login: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Login(context.Background(), "ada@x.com", "newSecret2"); err != nil {
		t.Errorf("new password login failed: %v", err)
	}
}

func TestSendResetOTP_UnknownEmail(t *testing.T) {
	auth := newAuth(newMemUserRepo(), &fakeEmailSender{})
	if err := auth.SendResetOTP(context.Background(), "nobody@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

func TestResetPassword_ExpiredCodeLeavesPasswordUnchanged(t *testing.T) {
	repo := newMemUserRepo()
	auth := newAuth(repo, &fakeEmailSender{})
	user := mustRegister(t, auth, "Ada", "ada@x.com", "secret1")

	if err := auth.SendResetOTP(context.Background(), "ada@x.com"); err != nil {
		t.Fatalf("send reset otp: %v", err)
	}
	code := repo.byID[user.ID].ResetOTP

	// Simulate 16 minutes passing: push the stored expiry into the past.
	repo.byID[user.ID].ResetOTPExpiresAt = time.Now().Add(-time.Minute).UnixMilli()

	err := auth.ResetPassword(context.Background(), "ada@x.com", code, "newSecret2")
	if !errors.Is(err, otp.ErrExpired) {
		t.Errorf("want ErrExpired, got %v", err)
	}

	after, _ := repo.FindByID(context.Background(), user.ID)
	if !password.Verify("secret1", after.PasswordHash) {
		t.Error("password changed despite expired code")
	}
}

func TestResetOTP_CannotVerifyAccount(t *testing.T) {
	repo := newMemUserRepo()
	auth := newAuth(repo, &fakeEmailSender{})
	user := mustRegister(t, auth, "Ada", "ada@x.com", "secret1")

	if err := auth.SendResetOTP(context.Background(), "ada@x.com"); err != nil {
		t.Fatalf("send reset otp: %v", err)
	}
	resetCode := repo.byID[user.ID].ResetOTP

	err := auth.VerifyEmail(context.Background(), user.ID, resetCode)
	if !errors.Is(err, otp.ErrNoActiveOTP) {
		t.Errorf("reset code satisfied verify check: got %v", err)
	}
	if repo.byID[user.ID].IsVerified {
		t.Error("account verified by a reset code")
	}
}
