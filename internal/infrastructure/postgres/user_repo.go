package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/codequest-dev/auth-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password_hash, is_verified,
	verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at,
	created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, is_verified,
			verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.IsVerified,
		u.VerifyOTP, u.VerifyOTPExpiresAt, u.ResetOTP, u.ResetOTPExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) SetOTP(ctx context.Context, userID string, p domain.OTPPurpose, code string, expiresAt int64) error {
	var query string
	if p == domain.PurposeReset {
		query = `UPDATE users
			SET reset_otp = $2, reset_otp_expires_at = $3, updated_at = NOW()
			WHERE id = $1`
	} else {
		query = `UPDATE users
			SET verify_otp = $2, verify_otp_expires_at = $3, updated_at = NOW()
			WHERE id = $1`
	}

	tag, err := r.pool.Exec(ctx, query, userID, code, expiresAt)
	if err != nil {
		return fmt.Errorf("set %s otp: %w", p, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// MarkVerified applies the verification flag and clears the verify OTP pair
// in one statement, so a consumed code can never survive its effect.
func (r *UserRepository) MarkVerified(ctx context.Context, userID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET is_verified = TRUE, verify_otp = '', verify_otp_expires_at = 0,
			updated_at = NOW()
		WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePassword swaps the hash and clears the reset OTP pair in one
// statement, mirroring MarkVerified.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, reset_otp = '', reset_otp_expires_at = 0,
			updated_at = NOW()
		WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsVerified,
		&u.VerifyOTP, &u.VerifyOTPExpiresAt, &u.ResetOTP, &u.ResetOTPExpiresAt,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
