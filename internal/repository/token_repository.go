package repository

import (
	"context"

	"crowdfund/internal/models"
	"crowdfund/internal/storage"
)

type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	FindByKey(ctx context.Context, key string) (*models.Token, error)
	FindByUser(ctx context.Context, userID uint) (*models.Token, error)
}

type tokenRepository struct {
	db *storage.DB
}

func NewTokenRepository(db *storage.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *models.Token) error {
	return r.db.WithContext(ctx).Omit("User").Create(token).Error
}

// FindByKey loads the token with its user.
func (r *tokenRepository) FindByKey(ctx context.Context, key string) (*models.Token, error) {
	if key == "" {
		// a zero-value struct condition would match any row
		return nil, ErrNotFound
	}
	var token models.Token
	err := r.db.WithContext(ctx).Preload("User").Where(&models.Token{Key: key}).First(&token).Error
	if err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *tokenRepository) FindByUser(ctx context.Context, userID uint) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if err != nil {
		return nil, translate(err)
	}
	return &token, nil
}
