package services

import (
	"context"
	"errors"
	"log"
	"time"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/adapters/persistence/repositories"
	"coderr-backend/internal/core/domain"

	"gorm.io/gorm"
)

// OrderService handles purchases of offer details
type OrderService struct {
	orderRepo repositories.OrderRepository
	offerRepo repositories.OfferRepository
	userRepo  repositories.UserRepository
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repositories.OrderRepository,
	offerRepo repositories.OfferRepository,
	userRepo repositories.UserRepository,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		offerRepo: offerRepo,
		userRepo:  userRepo,
	}
}

// CreateOrderInput represents an order request
type CreateOrderInput struct {
	OfferDetailID *uint `json:"offer_detail_id" validate:"required"`
}

// UpdateOrderStatusInput represents a status change
type UpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required,oneof=in_progress completed cancelled"`
}

// OrderView is the order representation
type OrderView struct {
	ID                 uint               `json:"id"`
	CustomerUser       uint               `json:"customer_user"`
	BusinessUser       uint               `json:"business_user"`
	OfferDetail        uint               `json:"offer_detail"`
	Title              string             `json:"title"`
	Revisions          int                `json:"revisions"`
	DeliveryTimeInDays int                `json:"delivery_time_in_days"`
	Price              int                `json:"price"`
	Features           []string           `json:"features"`
	OfferType          domain.OfferType   `json:"offer_type"`
	Status             domain.OrderStatus `json:"status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// List returns the orders the caller takes part in, newest first
func (s *OrderService) List(ctx context.Context, actor *domain.Actor) ([]*OrderView, error) {
	orders, err := s.orderRepo.ListByParticipant(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	views := make([]*OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	return views, nil
}

// Create orders an offer detail, copying its terms into the order
func (s *OrderService) Create(ctx context.Context, actor *domain.Actor, input *CreateOrderInput) (*OrderView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	detail, err := s.offerRepo.GetDetailByID(ctx, *input.OfferDetailID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewValidationError("offer_detail_id", "Offer detail not found.")
		}
		return nil, err
	}

	if !actor.Role.CanPlaceOrders() {
		return nil, domain.Forbidden("Only customers can place orders.")
	}

	ownerID, err := s.offerRepo.GetDetailOwnerID(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	if ownerID == actor.ID {
		return nil, domain.NewValidationError("offer_detail_id", "You cannot order your own offer.")
	}

	order := &models.Order{
		CustomerUserID:     actor.ID,
		BusinessUserID:     ownerID,
		OfferDetailID:      detail.ID,
		Title:              detail.Title,
		Revisions:          detail.Revisions,
		DeliveryTimeInDays: detail.DeliveryTimeInDays,
		Price:              detail.Price,
		Features:           nonNilFeatures(detail.Features),
		OfferType:          detail.OfferType,
		Status:             domain.OrderStatusInProgress,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("✅ Order created: %d (detail %d, customer %d)", order.ID, detail.ID, actor.ID)

	return toOrderView(order), nil
}

// UpdateStatus lets the business party of an order change its status
func (s *OrderService) UpdateStatus(ctx context.Context, actor *domain.Actor, id uint, input *UpdateOrderStatusInput) (*OrderView, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Order")
	}

	if !actor.Role.CanFulfilOrders() || order.BusinessUserID != actor.ID {
		return nil, domain.Forbidden("Only the business user of this order can change its status.")
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	status := domain.OrderStatus(input.Status)
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFoundOr(err, "Order")
	}

	log.Printf("✅ Order %d status: %s -> %s", id, order.Status, status)

	order, err = s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Order")
	}
	return toOrderView(order), nil
}

// Delete removes an order; staff only
func (s *OrderService) Delete(ctx context.Context, actor *domain.Actor, id uint) error {
	if !actor.IsStaff {
		return domain.Forbidden("Only staff can delete orders.")
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Order")
	}

	log.Printf("✅ Order deleted: %d by staff %d", id, actor.ID)
	return nil
}

// CountForBusiness counts the orders of a business user in one status
func (s *OrderService) CountForBusiness(ctx context.Context, businessUserID uint, status domain.OrderStatus) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, businessUserID)
	if err != nil {
		return 0, notFoundOr(err, "Business user")
	}
	if !user.Type.IsReviewable() {
		return 0, domain.NotFound("Business user")
	}

	return s.orderRepo.CountByBusinessAndStatus(ctx, businessUserID, status)
}

func toOrderView(o *models.Order) *OrderView {
	return &OrderView{
		ID:                 o.ID,
		CustomerUser:       o.CustomerUserID,
		BusinessUser:       o.BusinessUserID,
		OfferDetail:        o.OfferDetailID,
		Title:              o.Title,
		Revisions:          o.Revisions,
		DeliveryTimeInDays: o.DeliveryTimeInDays,
		Price:              o.Price,
		Features:           nonNilFeatures(o.Features),
		OfferType:          o.OfferType,
		Status:             o.Status,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}
