package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/adapters/persistence/repositories"
	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/pkg/storage"

	"gorm.io/gorm"
)

// offerImageDir holds uploaded offer images
const offerImageDir = "offers"

// OfferService handles offers and their pricing tiers
type OfferService struct {
	offerRepo repositories.OfferRepository
	store     storage.Store
}

// NewOfferService creates a new offer service
func NewOfferService(offerRepo repositories.OfferRepository, store storage.Store) *OfferService {
	return &OfferService{offerRepo: offerRepo, store: store}
}

// ============================================================
// Input DTOs
// ============================================================

// OfferDetailInput is one tier of a new offer
type OfferDetailInput struct {
	Title              string   `json:"title" validate:"required,max=255"`
	Revisions          *int     `json:"revisions" validate:"required,gte=0"`
	DeliveryTimeInDays *int     `json:"delivery_time_in_days" validate:"required,gt=0"`
	Price              *int     `json:"price" validate:"required,gte=0"`
	Features           []string `json:"features" validate:"omitempty,dive,max=255"`
	OfferType          string   `json:"offer_type" validate:"required,oneof=basic standard premium"`
}

// CreateOfferInput represents a new offer with its tiers
type CreateOfferInput struct {
	Title       string             `json:"title" validate:"required,max=255"`
	Image       string             `json:"image" validate:"max=255"`
	Description string             `json:"description"`
	Details     []OfferDetailInput `json:"details" validate:"required,min=3,dive"`
}

// OfferDetailPatch changes one existing tier, picked by OfferType
type OfferDetailPatch struct {
	Title              *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Revisions          *int     `json:"revisions" validate:"omitempty,gte=0"`
	DeliveryTimeInDays *int     `json:"delivery_time_in_days" validate:"omitempty,gte=0"`
	Price              *int     `json:"price" validate:"omitempty,gte=0"`
	Features           []string `json:"features" validate:"omitempty,dive,max=255"`
	OfferType          string   `json:"offer_type" validate:"required,oneof=basic standard premium"`
}

// UpdateOfferInput represents a partial offer update
type UpdateOfferInput struct {
	Title       *string            `json:"title" validate:"omitempty,min=1,max=255"`
	Image       *string            `json:"image" validate:"omitempty,max=255"`
	Description *string            `json:"description"`
	Details     []OfferDetailPatch `json:"details" validate:"omitempty,dive"`
}

// ListOffersInput selects one page of offers
type ListOffersInput struct {
	Filter repositories.OfferFilter
	Offset int
	Limit  int
}

// ============================================================
// Views
// ============================================================

// OfferDetailView is the full representation of one tier
type OfferDetailView struct {
	ID                 uint             `json:"id"`
	Title              string           `json:"title"`
	Revisions          int              `json:"revisions"`
	DeliveryTimeInDays int              `json:"delivery_time_in_days"`
	Price              int              `json:"price"`
	Features           []string         `json:"features"`
	OfferType          domain.OfferType `json:"offer_type"`
}

// OfferDetailLink points to a tier from an offer listing
type OfferDetailLink struct {
	ID  uint   `json:"id"`
	URL string `json:"url"`
}

// OfferUserDetails is the creator summary embedded in offer listings
type OfferUserDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// OfferListItem is an offer as returned by listings and single reads
type OfferListItem struct {
	ID              uint              `json:"id"`
	User            uint              `json:"user"`
	Title           string            `json:"title"`
	Image           string            `json:"image"`
	Description     string            `json:"description"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Details         []OfferDetailLink `json:"details"`
	MinPrice        *int              `json:"min_price"`
	MinDeliveryTime *int              `json:"min_delivery_time"`
	UserDetails     OfferUserDetails  `json:"user_details"`
}

// OfferView is an offer with its tiers expanded, returned after writes
type OfferView struct {
	ID              uint              `json:"id"`
	User            uint              `json:"user"`
	Title           string            `json:"title"`
	Image           string            `json:"image"`
	Description     string            `json:"description"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Details         []OfferDetailView `json:"details"`
	MinPrice        *int              `json:"min_price"`
	MinDeliveryTime *int              `json:"min_delivery_time"`
}

// ============================================================
// Operations
// ============================================================

// List returns one page of offers and the total number of matches
func (s *OfferService) List(ctx context.Context, input *ListOffersInput) ([]*OfferListItem, int64, error) {
	if input.Filter.Ordering == "" {
		input.Filter.Ordering = repositories.DefaultOfferOrdering
	}
	if _, ok := repositories.OfferOrderings[input.Filter.Ordering]; !ok {
		return nil, 0, domain.NewValidationError("ordering",
			"Select a valid choice. Allowed: updated_at, -updated_at, min_price, -min_price.")
	}

	offers, total, err := s.offerRepo.List(ctx, input.Filter, input.Offset, input.Limit)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*OfferListItem, 0, len(offers))
	for _, o := range offers {
		items = append(items, s.toListItem(o))
	}
	return items, total, nil
}

// Get returns a single offer
func (s *OfferService) Get(ctx context.Context, id uint) (*OfferListItem, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Offer")
	}
	return s.toListItem(offer), nil
}

// GetDetail returns a single tier
func (s *OfferService) GetDetail(ctx context.Context, id uint) (*OfferDetailView, error) {
	detail, err := s.offerRepo.GetDetailByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Offer detail")
	}
	return toDetailView(detail), nil
}

// Create publishes an offer with at least three tiers. The image upload,
// when given, takes precedence over input.Image.
func (s *OfferService) Create(ctx context.Context, actor *domain.Actor, input *CreateOfferInput, image *multipart.FileHeader) (*OfferView, error) {
	if !actor.Role.CanPublishOffers() {
		return nil, domain.Forbidden("Only business users can create offers.")
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if image == nil {
		if err := checkImageRef("image", input.Image); err != nil {
			return nil, err
		}
	}

	seen := map[string]bool{}
	for _, d := range input.Details {
		if seen[d.OfferType] {
			return nil, domain.NewValidationError("details", fmt.Sprintf("Duplicate offer_type %q.", d.OfferType))
		}
		seen[d.OfferType] = true
	}

	offer := &models.Offer{
		UserID:      actor.ID,
		Title:       input.Title,
		Image:       input.Image,
		Description: input.Description,
	}
	for _, d := range input.Details {
		offer.Details = append(offer.Details, models.OfferDetail{
			Title:              d.Title,
			Revisions:          *d.Revisions,
			DeliveryTimeInDays: *d.DeliveryTimeInDays,
			Price:              *d.Price,
			Features:           nonNilFeatures(d.Features),
			OfferType:          domain.OfferType(d.OfferType),
		})
	}

	if image != nil {
		key, err := s.store.Save(offerImageDir, image)
		if err != nil {
			return nil, uploadError("image", err)
		}
		offer.Image = key
	}

	if err := s.offerRepo.CreateWithDetails(ctx, offer); err != nil {
		if image != nil {
			_ = s.store.Delete(offer.Image)
		}
		return nil, err
	}

	log.Printf("✅ Offer created: %d by user %d", offer.ID, actor.ID)

	return s.view(ctx, offer.ID)
}

// Update changes offer fields and overwrites tiers matched by offer_type,
// all in one transaction
func (s *OfferService) Update(ctx context.Context, actor *domain.Actor, id uint, input *UpdateOfferInput, image *multipart.FileHeader) (*OfferView, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Offer")
	}

	if offer.UserID != actor.ID {
		return nil, domain.Forbidden("You can only edit your own offers.")
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.Title != nil {
		offer.Title = *input.Title
	}
	if input.Description != nil {
		offer.Description = *input.Description
	}

	var changed []*models.OfferDetail
	for _, patch := range input.Details {
		detail := offer.DetailByType(domain.OfferType(patch.OfferType))
		if detail == nil {
			return nil, domain.NewValidationError("details",
				fmt.Sprintf("No detail with offer_type %q exists on this offer.", patch.OfferType))
		}
		applyDetailPatch(detail, &patch)
		changed = append(changed, detail)
	}

	oldImage := offer.Image
	if input.Image != nil && image == nil {
		if err := checkImageRef("image", *input.Image); err != nil {
			return nil, err
		}
		offer.Image = *input.Image
	}
	if image != nil {
		key, err := s.store.Save(offerImageDir, image)
		if err != nil {
			return nil, uploadError("image", err)
		}
		offer.Image = key
	}

	if err := s.offerRepo.UpdateWithDetails(ctx, offer, changed); err != nil {
		if image != nil {
			_ = s.store.Delete(offer.Image)
		}
		return nil, err
	}

	if offer.Image != oldImage {
		if err := removeMedia(s.store, offerImageDir, oldImage); err != nil {
			log.Printf("⚠️ Failed to remove old offer image %s: %v", oldImage, err)
		}
	}

	return s.view(ctx, offer.ID)
}

// Delete removes an offer that has never been ordered
func (s *OfferService) Delete(ctx context.Context, actor *domain.Actor, id uint) error {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Offer")
	}

	if offer.UserID != actor.ID {
		return domain.Forbidden("You can only delete your own offers.")
	}

	if err := s.offerRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrReferenced):
			return domain.NewValidationError("non_field_errors",
				"This offer has orders and cannot be deleted.")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return domain.NotFound("Offer")
		}
		return err
	}

	if err := removeMedia(s.store, offerImageDir, offer.Image); err != nil {
		log.Printf("⚠️ Failed to remove offer image %s: %v", offer.Image, err)
	}

	log.Printf("✅ Offer deleted: %d", id)
	return nil
}

// ============================================================
// Helpers
// ============================================================

func applyDetailPatch(d *models.OfferDetail, p *OfferDetailPatch) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Revisions != nil {
		d.Revisions = *p.Revisions
	}
	if p.DeliveryTimeInDays != nil {
		d.DeliveryTimeInDays = *p.DeliveryTimeInDays
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.Features != nil {
		d.Features = p.Features
	}
}

func nonNilFeatures(f []string) []string {
	if f == nil {
		return []string{}
	}
	return f
}

func (s *OfferService) view(ctx context.Context, id uint) (*OfferView, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Offer")
	}

	v := &OfferView{
		ID:              offer.ID,
		User:            offer.UserID,
		Title:           offer.Title,
		Image:           mediaURL(s.store, offer.Image),
		Description:     offer.Description,
		CreatedAt:       offer.CreatedAt,
		UpdatedAt:       offer.UpdatedAt,
		Details:         make([]OfferDetailView, 0, len(offer.Details)),
		MinPrice:        offer.MinPrice(),
		MinDeliveryTime: offer.MinDeliveryTime(),
	}
	for i := range offer.Details {
		v.Details = append(v.Details, *toDetailView(&offer.Details[i]))
	}
	return v, nil
}

func (s *OfferService) toListItem(o *models.Offer) *OfferListItem {
	item := &OfferListItem{
		ID:              o.ID,
		User:            o.UserID,
		Title:           o.Title,
		Image:           mediaURL(s.store, o.Image),
		Description:     o.Description,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Details:         make([]OfferDetailLink, 0, len(o.Details)),
		MinPrice:        o.MinPrice(),
		MinDeliveryTime: o.MinDeliveryTime(),
	}
	for _, d := range o.Details {
		item.Details = append(item.Details, OfferDetailLink{
			ID:  d.ID,
			URL: fmt.Sprintf("/offerdetails/%d/", d.ID),
		})
	}
	if o.User != nil {
		item.UserDetails = OfferUserDetails{
			FirstName: o.User.FirstName,
			LastName:  o.User.LastName,
			Username:  o.User.Username,
		}
	}
	return item
}

func toDetailView(d *models.OfferDetail) *OfferDetailView {
	return &OfferDetailView{
		ID:                 d.ID,
		Title:              d.Title,
		Revisions:          d.Revisions,
		DeliveryTimeInDays: d.DeliveryTimeInDays,
		Price:              d.Price,
		Features:           nonNilFeatures(d.Features),
		OfferType:          d.OfferType,
	}
}
