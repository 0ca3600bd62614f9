package repositories

import (
	"context"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/core/domain"

	"gorm.io/gorm"
)

// orderRepository implements OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create creates a new order
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Omit("CustomerUser", "BusinessUser", "OfferDetail").
		Create(order).Error
}

// GetByID gets an order by ID
func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByParticipant lists orders where the user is customer or business,
// newest first
func (r *orderRepository) ListByParticipant(ctx context.Context, userID uint) ([]*models.Order, error) {
	var orders []*models.Order
	err := r.db.WithContext(ctx).
		Where("customer_user_id = ? OR business_user_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// UpdateStatus changes only the status column of an order
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{ID: id}).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes an order
func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByBusinessAndStatus counts orders of a business user in a status
func (r *orderRepository) CountByBusinessAndStatus(ctx context.Context, businessUserID uint, status domain.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("business_user_id = ? AND status = ?", businessUserID, status).
		Count(&count).Error
	return count, err
}
