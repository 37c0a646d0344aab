package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token fails parsing, has a bad
	// signature, or was signed with an unexpected method.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a token's signature is valid but its
	// expiry has passed.
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the assertions carried by an access token.
type Claims struct {
	Subject      string `json:"sub"`
	Organization string `json:"org"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies signed, time-bound access tokens. Tokens are
// stateless: validity is determined solely by signature and expiry.
type TokenIssuer struct {
	secret     []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
}

// NewTokenIssuer creates a TokenIssuer. Algorithm must be an HMAC method name
// (HS256, HS384, HS512).
func NewTokenIssuer(secret, algorithm string, defaultTTL time.Duration) (*TokenIssuer, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenIssuer{
		secret:     []byte(secret),
		method:     method,
		defaultTTL: defaultTTL,
	}, nil
}

// Issue mints a token asserting that subject is an admin of organization,
// expiring after the issuer's default TTL.
func (i *TokenIssuer) Issue(subject, organization string) (string, error) {
	return i.IssueWithTTL(subject, organization, i.defaultTTL)
}

// IssueWithTTL mints a token with an explicit lifetime. A zero or negative
// ttl produces an already-expired token.
func (i *TokenIssuer) IssueWithTTL(subject, organization string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Subject:      subject,
		Organization: organization,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(i.method, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, signing method, and expiry, and returns the
// embedded claims. Only tokens signed with the issuer's configured method
// are accepted.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != i.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
