package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid bearer token")

type Claim struct {
	Metadata Metadata `json:"metadata"`
	jwt.RegisteredClaims
}

type Metadata struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Parse verifies an HS256 token and returns its claims.
func Parse(raw, secret string) (*Claim, error) {
	claim := &Claim{}
	parsed, err := jwt.ParseWithClaims(raw, claim, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claim.Metadata.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claim, nil
}

// Sign issues a token for metadata valid for ttl. Used by tests and local tooling.
func Sign(metadata Metadata, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claim := Claim{
		Metadata: metadata,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   metadata.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claim).SignedString([]byte(secret))
}
