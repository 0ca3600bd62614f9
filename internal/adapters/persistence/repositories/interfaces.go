package repositories

import (
	"context"
	"errors"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/core/domain"
)

// ErrReferenced is returned when a delete is blocked by rows that still
// reference the record
var ErrReferenced = errors.New("record is still referenced")

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByLogin(ctx context.Context, login string) ([]*models.User, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	ListByType(ctx context.Context, role domain.Role) ([]*models.User, error)
	CountByType(ctx context.Context, role domain.Role) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AuthTokenRepository defines session token repository interface
type AuthTokenRepository interface {
	Create(ctx context.Context, token *models.AuthToken) error
	GetByUserID(ctx context.Context, userID uint) (*models.AuthToken, error)
	GetByTokenID(ctx context.Context, tokenID string) (*models.AuthToken, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

// OfferFilter narrows and orders an offer listing
type OfferFilter struct {
	UserID          *uint
	MinPrice        *int
	MinDeliveryTime *int
	MaxDeliveryTime *int
	Search          string
	Ordering        string // one of OfferOrderings keys
}

// OfferRepository defines offer and offer detail repository interface
type OfferRepository interface {
	CreateWithDetails(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id uint) (*models.Offer, error)
	List(ctx context.Context, filter OfferFilter, offset, limit int) ([]*models.Offer, int64, error)
	UpdateWithDetails(ctx context.Context, offer *models.Offer, details []*models.OfferDetail) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	GetDetailByID(ctx context.Context, id uint) (*models.OfferDetail, error)
	GetDetailOwnerID(ctx context.Context, detailID uint) (uint, error)
}

// OrderRepository defines order repository interface
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListByParticipant(ctx context.Context, userID uint) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error
	Delete(ctx context.Context, id uint) error
	CountByBusinessAndStatus(ctx context.Context, businessUserID uint, status domain.OrderStatus) (int64, error)
}

// ReviewFilter narrows and orders a review listing
type ReviewFilter struct {
	BusinessUserID *uint
	ReviewerID     *uint
	Ordering       string // one of ReviewOrderings keys
}

// ReviewRepository defines review repository interface
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
	ExistsForPair(ctx context.Context, reviewerID, businessUserID uint) (bool, error)
	Stats(ctx context.Context) (count int64, average float64, err error)
}
