package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farescout/farescout/internal/auth"
)

func TestTokenService_GenerateAndValidate(t *testing.T) {
	svc := auth.NewTokenService(auth.TokenConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "farescout",
		Audience:   "farescout-api",
	})

	token, expiresAt, err := svc.GenerateToken("ops")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	subject, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", subject)
}

func TestTokenService_InvalidToken(t *testing.T) {
	svc := auth.NewTokenService(auth.TokenConfig{
		SigningKey: "test-secret-key-for-testing-only",
	})

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestTokenService_WrongSigningKey(t *testing.T) {
	svc1 := auth.NewTokenService(auth.TokenConfig{SigningKey: "key-one"})
	token, _, err := svc1.GenerateToken("ops")
	require.NoError(t, err)

	svc2 := auth.NewTokenService(auth.TokenConfig{SigningKey: "key-two"})
	_, err = svc2.ValidateToken(token)
	assert.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenService_WrongIssuer(t *testing.T) {
	svc1 := auth.NewTokenService(auth.TokenConfig{SigningKey: "test-key", Issuer: "issuer-one"})
	token, _, err := svc1.GenerateToken("ops")
	require.NoError(t, err)

	svc2 := auth.NewTokenService(auth.TokenConfig{SigningKey: "test-key", Issuer: "issuer-two"})
	_, err = svc2.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_WrongAudience(t *testing.T) {
	svc1 := auth.NewTokenService(auth.TokenConfig{SigningKey: "test-key", Audience: "audience-one"})
	token, _, err := svc1.GenerateToken("ops")
	require.NoError(t, err)

	svc2 := auth.NewTokenService(auth.TokenConfig{SigningKey: "test-key", Audience: "audience-two"})
	_, err = svc2.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_Expired(t *testing.T) {
	svc := auth.NewTokenService(auth.TokenConfig{
		SigningKey: "test-key",
		Expiry:     -time.Minute,
	})

	token, _, err := svc.GenerateToken("ops")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}
