package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aura-backend/internal/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrTokensDisabled     = errors.New("token authentication is not configured")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
)

type Service struct {
	repo     Repository
	tokens   *auth.Manager
	location *time.Location
}

func NewService(repo Repository, tokens *auth.Manager, location *time.Location) *Service {
	return &Service{repo: repo, tokens: tokens, location: location}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks email and password. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (User, Tokens, error) {
	if s.tokens == nil {
		return User{}, Tokens{}, ErrTokensDisabled
	}
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, Tokens{}, ErrInvalidCredentials
		}
		return User{}, Tokens{}, err
	}
	if err := auth.ComparePassword(u.PasswordHash, password); err != nil {
		return User{}, Tokens{}, ErrInvalidCredentials
	}

	tokens, err := s.issue(u)
	if err != nil {
		return User{}, Tokens{}, err
	}
	return u, tokens, nil
}

// Refresh exchanges a refresh token for a new pair. The user is reloaded so a
// deleted account or changed role takes effect.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (User, Tokens, error) {
	if s.tokens == nil {
		return User{}, Tokens{}, ErrTokensDisabled
	}
	claims, err := s.tokens.ParseAs(refreshToken, auth.TokenRefresh)
	if err != nil {
		return User{}, Tokens{}, ErrInvalidCredentials
	}
	u, err := s.Get(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, Tokens{}, ErrInvalidCredentials
		}
		return User{}, Tokens{}, err
	}

	tokens, err := s.issue(u)
	if err != nil {
		return User{}, Tokens{}, err
	}
	return u, tokens, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// Ensure creates the user or resets its name, password and role.
func (s *Service) Ensure(ctx context.Context, name, email, password, role string) (User, error) {
	if role != RoleAdmin && role != RoleEditor {
		return User{}, ErrInvalidRole
	}
	if len(password) < auth.MinPasswordLength {
		return User{}, ErrWeakPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	now := time.Now().In(s.location)
	return s.repo.UpsertByEmail(ctx, User{
		ID:           primitive.NewObjectID().Hex(),
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *Service) issue(u User) (Tokens, error) {
	id := auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
	access, err := s.tokens.NewAccessToken(id)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.tokens.NewRefreshToken(id)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTTL.Seconds()),
	}, nil
}

// AccessTTL and RefreshTTL size the auth cookies.
func (s *Service) AccessTTL() time.Duration  { return s.tokens.AccessTTL }
func (s *Service) RefreshTTL() time.Duration { return s.tokens.RefreshTTL }
