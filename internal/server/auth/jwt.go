// Package auth issues and verifies the identity tokens handed to clients
// after signup or signin.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/realestate/internal/common"
)

var ErrEmptySecret = errors.New("empty signing secret")

// Identity is what a verified token says about its bearer.
type Identity struct {
	ID    string
	Email string
}

// Claims carries the account id and email next to the registered claims.
// The registered jti is a random UUID so that two tokens minted for the same
// account in the same second still differ.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"id"`
	Email     string `json:"email"`
}

// TokenIssuer mints and verifies HS256 identity tokens. It holds the signing
// secret for its whole lifetime and is safe for concurrent use.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenIssuer(secret []byte, validity time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &TokenIssuer{secret: secret, validity: validity, now: time.Now}, nil
}

// Validity is how long a freshly issued token stays valid.
func (t *TokenIssuer) Validity() time.Duration {
	return t.validity
}

func (t *TokenIssuer) GenerateToken(accountID, email string) (string, error) {
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.validity)),
		},
		AccountID: accountID,
		Email:     email,
	})

	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// ParseToken verifies tokenString and returns the identity it carries.
// Errors are common.ErrMalformedToken, common.ErrTokenExpired or
// common.ErrInvalidToken.
func (t *TokenIssuer) ParseToken(tokenString string) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, common.ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, common.ErrTokenExpired
	default:
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.AccountID == "" {
		return nil, common.ErrInvalidToken
	}

	return &Identity{ID: claims.AccountID, Email: claims.Email}, nil
}
