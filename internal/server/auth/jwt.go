// Package auth issues and verifies session tokens and hashes account
// passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the standard claims plus the user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// TokenStatus is the outcome of verifying a token.
type TokenStatus int

const (
	TokenInvalid TokenStatus = iota
	TokenValid
	TokenExpired
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// TokenResult reports what ParseToken found. UserID and ExpiresAt are set
// only when Status is TokenValid.
type TokenResult struct {
	Status    TokenStatus
	UserID    string
	ExpiresAt time.Time
}

// Err maps the result to common.ErrTokenExpired, common.ErrInvalidToken or nil.
func (r TokenResult) Err() error {
	switch r.Status {
	case TokenValid:
		return nil
	case TokenExpired:
		return common.ErrTokenExpired
	default:
		return common.ErrInvalidToken
	}
}

// GenerateToken signs an HS256 token for userID that expires after
// validityDuration. It also returns the expiry time.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(validityDuration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseToken verifies signature, algorithm and expiry of tokenString.
// It never returns an error; failures are encoded in the result status.
func ParseToken(tokenString string, secretKey []byte) TokenResult {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return TokenResult{Status: TokenExpired}
	case err != nil, !token.Valid, claims.UserID == "":
		return TokenResult{Status: TokenInvalid}
	}

	return TokenResult{
		Status:    TokenValid,
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}
