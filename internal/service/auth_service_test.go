package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hilamalka1/onboard-api/internal/models"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, zap.NewNop(), AuthConfig{
		AdminEmail:        "Admin@OnBoard.example",
		AdminPasswordHash: string(hash),
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "onboard-api",
	})
}

func TestAuthServiceLoginIssuesValidToken(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@onboard.example", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "admin@onboard.example", claims.Email)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@onboard.example", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "other@onboard.example", Password: "s3cret!"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "bad", Password: ""})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	svc := newTestAuthService(t)
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@onboard.example", Password: "s3cret!"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "onboard-api", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := foreign.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceUnconfigured(t *testing.T) {
	svc := NewAuthService(nil, nil, AuthConfig{AccessTokenSecret: "x"})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@onboard.example", Password: "pw"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}
