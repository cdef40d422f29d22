package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StateSigner mints and verifies the OAuth state parameter as a short-lived
// HS256 token, so the login flow needs no server-side state storage.
type StateSigner struct {
	secret []byte
	expiry time.Duration
}

// NewStateSigner builds the signer. expiry bounds how long a login redirect
// may sit unconsumed.
func NewStateSigner(secret string, expiry time.Duration) *StateSigner {
	return &StateSigner{secret: []byte(secret), expiry: expiry}
}

// Issue returns a fresh signed state token.
func (s *StateSigner) Issue() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry of a state token returned by the
// provider's redirect.
func (s *StateSigner) Verify(state string) error {
	if state == "" {
		return errors.New("missing state parameter")
	}
	_, err := jwt.Parse(state, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("invalid state parameter: %w", err)
	}
	return nil
}
