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

// ReviewService handles customer reviews of business accounts
type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	userRepo   repositories.UserRepository
}

// NewReviewService creates a new review service
func NewReviewService(reviewRepo repositories.ReviewRepository, userRepo repositories.UserRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, userRepo: userRepo}
}

// CreateReviewInput represents a new review. A reviewer in the body is ignored.
type CreateReviewInput struct {
	BusinessUser *uint  `json:"business_user" validate:"required"`
	Rating       *int   `json:"rating" validate:"required,gte=1,lte=5"`
	Description  string `json:"description"`
}

// UpdateReviewInput represents a partial review update
type UpdateReviewInput struct {
	Rating      *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Description *string `json:"description"`
}

// ReviewView is the review representation
type ReviewView struct {
	ID           uint      `json:"id"`
	BusinessUser uint      `json:"business_user"`
	Reviewer     uint      `json:"reviewer"`
	Rating       int       `json:"rating"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// List returns reviews matching filter
func (s *ReviewService) List(ctx context.Context, filter repositories.ReviewFilter) ([]*ReviewView, error) {
	if filter.Ordering == "" {
		filter.Ordering = repositories.DefaultReviewOrdering
	}
	if _, ok := repositories.ReviewOrderings[filter.Ordering]; !ok {
		return nil, domain.NewValidationError("ordering",
			"Select a valid choice. Allowed: created_at, rating, updated_at (optionally prefixed with -).")
	}

	reviews, err := s.reviewRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]*ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, toReviewView(r))
	}
	return views, nil
}

// Get returns a single review
func (s *ReviewService) Get(ctx context.Context, id uint) (*ReviewView, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Review")
	}
	return toReviewView(review), nil
}

// Create stores the caller's review of a business user; one per pair
func (s *ReviewService) Create(ctx context.Context, actor *domain.Actor, input *CreateReviewInput) (*ReviewView, error) {
	if !actor.Role.CanWriteReviews() {
		return nil, domain.Forbidden("Only customers can write reviews.")
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	business, err := s.userRepo.GetByID(ctx, *input.BusinessUser)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if business == nil || !business.Type.IsReviewable() {
		return nil, domain.NewValidationError("business_user", "Select a valid business user.")
	}

	exists, err := s.reviewRepo.ExistsForPair(ctx, actor.ID, business.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errDuplicateReview()
	}

	review := &models.Review{
		BusinessUserID: business.ID,
		ReviewerID:     actor.ID,
		Rating:         *input.Rating,
		Description:    input.Description,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errDuplicateReview()
		}
		return nil, err
	}

	log.Printf("✅ Review created: %d (business %d, reviewer %d)", review.ID, business.ID, actor.ID)

	return toReviewView(review), nil
}

// Update changes rating and description of the caller's own review
func (s *ReviewService) Update(ctx context.Context, actor *domain.Actor, id uint, input *UpdateReviewInput) (*ReviewView, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Review")
	}

	if review.ReviewerID != actor.ID {
		return nil, domain.Forbidden("You can only edit your own reviews.")
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.Description != nil {
		review.Description = *input.Description
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes the caller's own review
func (s *ReviewService) Delete(ctx context.Context, actor *domain.Actor, id uint) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Review")
	}

	if review.ReviewerID != actor.ID {
		return domain.Forbidden("You can only delete your own reviews.")
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Review")
	}
	return nil
}

func errDuplicateReview() error {
	return domain.NewValidationError("non_field_errors", "You have already reviewed this business user.")
}

func toReviewView(r *models.Review) *ReviewView {
	return &ReviewView{
		ID:           r.ID,
		BusinessUser: r.BusinessUserID,
		Reviewer:     r.ReviewerID,
		Rating:       r.Rating,
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
