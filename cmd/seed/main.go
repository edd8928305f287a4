// seed creates the users table if needed and inserts a test account into
// the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/codequest-dev/auth-service/internal/domain"
	"github.com/codequest-dev/auth-service/internal/infrastructure/postgres"
	"github.com/codequest-dev/auth-service/internal/password"
	"github.com/google/uuid"
)

const (
	seedName     = "Seed User"
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password-1"
)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id                    TEXT PRIMARY KEY,
	name                  TEXT NOT NULL,
	email                 TEXT NOT NULL UNIQUE,
	password_hash         TEXT NOT NULL,
	is_verified           BOOLEAN NOT NULL DEFAULT FALSE,
	verify_otp            TEXT NOT NULL DEFAULT '',
	verify_otp_expires_at BIGINT NOT NULL DEFAULT 0,
	reset_otp             TEXT NOT NULL DEFAULT '',
	reset_otp_expires_at  BIGINT NOT NULL DEFAULT 0,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, usersSchema); err != nil {
		log.Fatalf("create users table: %v", err)
	}

	hash, err := password.Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := postgres.NewUserRepository(pool)
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         seedName,
		Email:        seedEmail,
		PasswordHash: hash,
	}

	switch err := users.Create(ctx, user); err {
	case nil:
		fmt.Println("Seed complete")
		fmt.Printf("  User:  %s\n", seedEmail)
		fmt.Printf("  ID:    %s\n", user.ID)
	case domain.ErrEmailTaken:
		fmt.Println("Seed user already exists, nothing to do")
	default:
		log.Fatalf("insert seed user: %v", err)
	}

	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in (stores the session cookie):")
	fmt.Println()
	fmt.Printf("    curl -s -c /tmp/cq.jar -X POST http://localhost:4000/api/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println()
	fmt.Println("  Step 2 — request a verification OTP (code appears in the server log under ENV=local):")
	fmt.Println()
	fmt.Println("    curl -s -b /tmp/cq.jar -X POST http://localhost:4000/api/auth/send-verify-otp")
	fmt.Println()
	fmt.Println("  Step 3 — confirm it:")
	fmt.Println()
	fmt.Println("    curl -s -b /tmp/cq.jar -X POST http://localhost:4000/api/auth/verify-account \\")
	fmt.Println("      -H 'Content-Type: application/json' -d '{\"otp\":\"CODE\"}'")
}
