package repositories

import (
	"context"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/core/domain"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLogin returns every user whose username or email equals login.
// Usernames are not unique, so there may be several.
func (r *userRepository) FindByLogin(ctx context.Context, login string) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// UpdateFields updates the given columns of a user
func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.User{ID: id}).
		Updates(fields).Error
}

// ListByType lists all users of an account type
func (r *userRepository) ListByType(ctx context.Context, role domain.Role) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Where("account_type = ?", role).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// CountByType counts users of an account type
func (r *userRepository) CountByType(ctx context.Context, role domain.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("account_type = ?", role).Count(&count).Error
	return count, err
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
