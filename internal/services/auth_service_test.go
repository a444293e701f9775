package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/brewpoints/loyalty-backend/internal/config"
	"github.com/brewpoints/loyalty-backend/internal/models"
	"github.com/brewpoints/loyalty-backend/pkg/jwt"
)

func newAuthService(t *testing.T) *AuthServiceImpl {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := config.AuthConfig{
		Email:        "member@brewpoints.io",
		PasswordHash: string(hash),
	}
	tokens := jwt.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(cfg, tokens)
}

func TestLoginSuccess(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "member@brewpoints.io",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "member@brewpoints.io", resp.User.Email)

	assert.NoError(t, svc.Validate(context.Background(), resp.Token))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "member@brewpoints.io",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "stranger@brewpoints.io",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshIssuesNewToken(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "member@brewpoints.io",
		Password: "password123",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.NoError(t, svc.Validate(context.Background(), refreshed))
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.Error(t, err)
}
