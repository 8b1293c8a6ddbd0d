// Package auth issues and validates the bearer tokens of the API. Tokens are
// stateless: validity is derived from the HMAC signature and the embedded
// expiry alone, so there is no server-side token store and no revocation of
// an individual token before it expires.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ruedaverde/backend/internal/common"
	"github.com/ruedaverde/backend/internal/server/models"
)

// Claims includes the registered claims plus the account identity carried by
// every token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string      `json:"uid"`
	Rol    models.Role `json:"rol"`
}

// GenerateToken signs a token for the given account with a fixed,
// server-configured validity window.
func GenerateToken(userID string, rol models.Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Rol:    rol,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns its
// claims. Expired tokens yield common.ErrTokenExpired; anything else that is
// wrong with the token (structure, signature, algorithm) yields
// common.ErrInvalidToken. Both collapse to a generic 401 at the API boundary,
// the distinction exists for diagnostics only.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
