package repositories

import (
	"context"

	"coderr-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// authTokenRepository implements AuthTokenRepository interface
type authTokenRepository struct {
	db *gorm.DB
}

// NewAuthTokenRepository creates a new session token repository
func NewAuthTokenRepository(db *gorm.DB) AuthTokenRepository {
	return &authTokenRepository{db: db}
}

// Create stores a new session
func (r *authTokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetByUserID gets the session of a user
func (r *authTokenRepository) GetByUserID(ctx context.Context, userID uint) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetByTokenID gets a session by its token id, with the owning user
func (r *authTokenRepository) GetByTokenID(ctx context.Context, tokenID string) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("token_id = ?", tokenID).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteByUserID ends the session of a user
func (r *authTokenRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.AuthToken{}).Error
}
