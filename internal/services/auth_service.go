package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/brewpoints/loyalty-backend/internal/config"
	"github.com/brewpoints/loyalty-backend/internal/models"
	"github.com/brewpoints/loyalty-backend/pkg/jwt"
)

// ErrInvalidCredentials is returned when login fails
var ErrInvalidCredentials = errors.New("invalid credentials")

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl authenticates the single demo member against the
// configured credentials and issues session tokens. This is the stub
// integration surface for a server-backed mode; the engine itself never
// consults it.
type AuthServiceImpl struct {
	cfg    config.AuthConfig
	tokens *jwt.TokenManager
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(cfg config.AuthConfig, tokens *jwt.TokenManager) *AuthServiceImpl {
	return &AuthServiceImpl{cfg: cfg, tokens: tokens}
}

// Login checks the credentials and issues a token
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if req.Email != s.cfg.Email {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate("member", req.Email)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		Token: token,
		User:  models.LoginUser{ID: "member", Email: req.Email},
	}, nil
}

// Refresh re-issues a token from a still-valid one
func (s *AuthServiceImpl) Refresh(ctx context.Context, token string) (string, error) {
	return s.tokens.Refresh(token)
}

// Validate checks a token
func (s *AuthServiceImpl) Validate(ctx context.Context, token string) error {
	_, err := s.tokens.Validate(token)
	return err
}
