package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenGenerator(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		accessExpiry   time.Duration
		expectedExpiry time.Duration
	}{
		{
			name:           "standard initialization",
			secret:         "test-secret-key",
			accessExpiry:   1 * time.Hour,
			expectedExpiry: 1 * time.Hour,
		},
		{
			name:           "short expiry",
			secret:         "short-secret",
			accessExpiry:   1 * time.Minute,
			expectedExpiry: 1 * time.Minute,
		},
		{
			name:           "zero expiry falls back to default",
			secret:         "default-secret",
			accessExpiry:   0,
			expectedExpiry: DefaultAccessTokenExpiry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := NewTokenGenerator(tt.secret, tt.accessExpiry)

			assert.NotNil(t, tg)
			assert.Equal(t, tt.secret, tg.secret)
			assert.Equal(t, tt.expectedExpiry, tg.accessTokenExpiry)
		})
	}
}

func TestTokenGenerator_IssueAndResolve(t *testing.T) {
	tg := NewTokenGenerator("b8a3c2267dc85f855dea9b46b452bf20", time.Hour)

	token, err := tg.IssueToken("student@example.com")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	subject, err := tg.ResolveToken(token)
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", subject)
}

func TestTokenGenerator_IssueToken_Claims(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tg := NewTokenGenerator("secret", 30*time.Minute)
	tg.now = func() time.Time { return fixed }

	token, err := tg.IssueToken("admin@example.com")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", claims["sub"])
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, float64(fixed.Add(30*time.Minute).Unix()), claims["exp"])
	assert.Equal(t, float64(fixed.Unix()), claims["iat"])
}

func TestTokenGenerator_ResolveToken_Failures(t *testing.T) {
	secret := "resolve-secret"
	tg := NewTokenGenerator(secret, time.Hour)

	sign := func(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "malformed token",
			token: func(t *testing.T) string { return "not-a-jwt" },
		},
		{
			name:  "empty token",
			token: func(t *testing.T) string { return "" },
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte("other-secret"), jwt.MapClaims{"sub": "a@example.com", "exp": future, "type": "access"})
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "a@example.com", "exp": time.Now().Add(-time.Minute).Unix(), "type": "access"})
			},
		},
		{
			name: "missing expiry",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "a@example.com", "type": "access"})
			},
		},
		{
			name: "missing subject",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"exp": future, "type": "access"})
			},
		},
		{
			name: "empty subject",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "", "exp": future, "type": "access"})
			},
		},
		{
			name: "wrong token type",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "a@example.com", "exp": future, "type": "refresh"})
			},
		},
		{
			name: "different hmac algorithm",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS512, []byte(secret), jwt.MapClaims{"sub": "a@example.com", "exp": future, "type": "access"})
			},
		},
		{
			name: "none algorithm",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"sub": "a@example.com", "exp": future, "type": "access"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := tg.ResolveToken(tt.token(t))

			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Empty(t, subject)
		})
	}
}
