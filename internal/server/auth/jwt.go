// Package auth signs and verifies the stateless session cookie used when
// the server runs with the "signed" session strategy.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	// Revocation cut-offs are compared against iat, whole seconds are too
	// coarse for a login that follows a password change.
	jwt.TimePrecision = time.Millisecond
}

// SessionClaims carries only identity and lifetime. The role is never part
// of the token; it is looked up on every request.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// UserID is the sub claim.
func (c *SessionClaims) UserID() string { return c.Subject }

func GenerateToken(userID, jti string, issuedAt time.Time, ttl time.Duration, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken checks signature, algorithm and expiry against the wall clock.
// Every failure wraps common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*SessionClaims, error) {
	return ParseTokenAt(tokenString, secretKey, time.Now())
}

// ParseTokenAt is ParseToken with exp and iat judged at now.
func ParseTokenAt(tokenString string, secretKey []byte, now time.Time) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" || claims.ID == "" || claims.IssuedAt == nil {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
