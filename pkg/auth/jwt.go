package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "sweeply/pkg/errors"
)

// Claims carries the caller identity embedded in access tokens.
type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates HS256 access tokens with a shared secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// CreateAccessToken issues a token for the given subject and role.
func (ti *TokenIssuer) CreateAccessToken(sub, role string) (string, error) {
	claims := Claims{
		Sub:  sub,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ti.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "failed to sign access token", 500)
	}
	return signed, nil
}

// ParseValidate verifies the signature and expiry and returns the claims.
func (ti *TokenIssuer) ParseValidate(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Unauthorized("unexpected token signing method")
		}
		return ti.secret, nil
	})
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, apperrors.Unauthorized("invalid token claims")
	}
	return claims, nil
}
