package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredentials is returned by ResolveToken for every kind of token failure.
// Reasons are not distinguished.
var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	// DefaultAccessTokenExpiry is the token lifetime used when none is configured
	DefaultAccessTokenExpiry = 60 * time.Minute

	accessTokenType = "access"
)

// TokenGenerator handles JWT token generation and validation
type TokenGenerator struct {
	secret            string
	accessTokenExpiry time.Duration
	now               func() time.Time
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry time.Duration) *TokenGenerator {
	if accessExpiry <= 0 {
		accessExpiry = DefaultAccessTokenExpiry
	}
	return &TokenGenerator{
		secret:            secret,
		accessTokenExpiry: accessExpiry,
		now:               time.Now,
	}
}

// IssueToken creates a signed access token whose subject is the given identifier
func (tg *TokenGenerator) IssueToken(subject string) (string, error) {
	now := tg.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"exp":  now.Add(tg.accessTokenExpiry).Unix(),
		"iat":  now.Unix(),
		"type": accessTokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ResolveToken validates an access token and returns its subject.
// Any failure (signature, algorithm, expiry, payload) yields ErrInvalidCredentials.
func (tg *TokenGenerator) ResolveToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tg.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredentials
	}

	// Check token type
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != accessTokenType {
		return "", ErrInvalidCredentials
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidCredentials
	}

	return subject, nil
}
