package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/codequest-dev/auth-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const sessionTTL = 7 * 24 * time.Hour

// Issuer signs and verifies session tokens. Tokens are stateless: the only
// claim consulted is the subject (user ID), and "revocation" is purely the
// client dropping its cookie. An issued token stays valid until its exp.
type Issuer struct {
	key []byte
	ttl time.Duration
}

func NewIssuer(key []byte) *Issuer {
	return &Issuer{key: key, ttl: sessionTTL}
}

// Issue signs an HS256 token carrying the user ID as subject, valid for 7 days.
func (i *Issuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the subject. It fails
// closed: every parse, method, or claim problem yields domain.ErrTokenInvalid.
func (i *Issuer) Verify(raw string) (string, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.key, nil
	})
	if err != nil || !t.Valid {
		return "", domain.ErrTokenInvalid
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrTokenInvalid
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", domain.ErrTokenInvalid
	}
	return userID, nil
}

// TTL is the fixed validity of issued tokens, exposed so the transport layer
// can align the cookie Max-Age with the token expiry.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}
