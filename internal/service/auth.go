package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"crowdfund/internal/cache"
	"crowdfund/internal/metrics"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"
	"crowdfund/internal/utils"
	"crowdfund/pkg/logger"
)

// LoginInput is the credential pair exchanged for a token.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenGrant is what a successful login returns.
type TokenGrant struct {
	Token  string `json:"token"`
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

// AuthService issues and resolves opaque bearer tokens.
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	cache     cache.TokenCache
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, tokens cache.TokenCache) *AuthService {
	if tokens == nil {
		tokens = cache.Nop{}
	}
	return &AuthService{userRepo: userRepo, tokenRepo: tokenRepo, cache: tokens}
}

// Login checks the credentials and returns the user's token, creating it on
// first login. The same token is returned on every later login.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenGrant, error) {
	errs := &ValidationError{}
	check(input, errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.AuthAttempts.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		metrics.AuthAttempts.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := s.getOrCreateToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &TokenGrant{Token: token.Key, UserID: user.ID, Email: user.Email}, nil
}

func (s *AuthService) getOrCreateToken(ctx context.Context, userID uint) (*models.Token, error) {
	token, err := s.tokenRepo.FindByUser(ctx, userID)
	if err == nil {
		metrics.AuthAttempts.WithLabelValues("reused").Inc()
		return token, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find token: %w", err)
	}

	key, err := utils.GenerateTokenKey()
	if err != nil {
		return nil, err
	}
	token = &models.Token{Key: key, UserID: userID}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		// a concurrent login for the same user may have won the insert
		if existing, findErr := s.tokenRepo.FindByUser(ctx, userID); findErr == nil {
			metrics.AuthAttempts.WithLabelValues("reused").Inc()
			return existing, nil
		}
		return nil, fmt.Errorf("create token: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("created").Inc()
	logger.WithCtx(ctx).Info("token issued", "user_id", userID)
	return token, nil
}

// Authenticate resolves a presented key to its user.
func (s *AuthService) Authenticate(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, ErrInvalidToken
	}

	if userID, ok := s.cache.Get(ctx, key); ok {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
	}

	token, err := s.tokenRepo.FindByKey(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}

	if err := s.cache.Set(ctx, key, token.UserID); err != nil {
		logger.WithCtx(ctx).Warn("token cache write failed", "error", err)
	}
	user := token.User
	return &user, nil
}
