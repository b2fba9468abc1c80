// Package auth provides JWT session tokens, bcrypt password hashing and the
// authentication middleware.
//
// SESSION FLOW:
//  1. POST /login verifies the password and issues a JWT stored in an
//     HttpOnly "token" cookie.
//  2. On later requests the middleware reads the cookie, validates the
//     signature and expiry, and puts the login (email) into the request
//     context.
//  3. Handlers resolve the login to a user row through the user-context
//     service; services receive the user explicitly, never via globals.
//
// The token is stateless — no session table. The subject claim carries the
// user's email because that is the login the rest of the system resolves
// identities by.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "tw2-resale-board"

// TokenService handles JWT creation and validation. It holds the HMAC
// secret used to sign and verify; the same secret must serve both.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. The secret should be at least
// 32 bytes of random data in production (openssl rand -hex 32).
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime, used to align the session
// cookie's MaxAge with the token expiry.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// claims embeds jwt.RegisteredClaims; Subject carries the user's login
// (email).
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs an access token for the given login.
// HS256: symmetric, fast, fine for a single-server deployment.
func (s *TokenService) Generate(login string) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the login it
// encodes. jwt.WithValidMethods pins HS256 so an "alg confusion" token is
// rejected before the signature is even checked.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
