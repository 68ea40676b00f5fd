// Package auth issues and verifies signed access tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultAlgorithm is the HMAC variant used when none is configured.
const DefaultAlgorithm = "HS256"

// Claims is the token payload. Subject carries the account email.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HMAC JWTs with a single secret and a fixed
// lifetime. It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec validates the signing configuration. Only HMAC algorithms
// (HS256, HS384, HS512) are accepted.
func NewTokenCodec(secret []byte, algorithm string, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", ttl)
	}
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}

	return &TokenCodec{
		secret: secret,
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL reports the lifetime given to new tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subject that expires ttl after issuedAt.
func (c *TokenCodec) Issue(subject string, issuedAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Verify checks signature, algorithm and expiry and returns the claims.
//
// It fails with common.ErrTokenExpired once now reaches the expiry, and with
// common.ErrInvalidToken for every other defect including a missing subject.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
