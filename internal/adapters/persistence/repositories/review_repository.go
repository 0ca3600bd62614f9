package repositories

import (
	"context"

	"coderr-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ReviewOrderings maps the accepted ordering values to ORDER BY clauses
var ReviewOrderings = map[string]string{
	"created_at":  "created_at ASC, id ASC",
	"-created_at": "created_at DESC, id DESC",
	"updated_at":  "updated_at ASC, id ASC",
	"-updated_at": "updated_at DESC, id DESC",
	"rating":      "rating ASC, id ASC",
	"-rating":     "rating DESC, id DESC",
}

// DefaultReviewOrdering is used when no ordering is requested
const DefaultReviewOrdering = "-updated_at"

// reviewRepository implements ReviewRepository interface
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create creates a new review
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit("BusinessUser", "Reviewer").Create(review).Error
}

// GetByID gets a review by ID
func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// List lists reviews matching filter
func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter) ([]*models.Review, error) {
	q := r.db.WithContext(ctx)
	if filter.BusinessUserID != nil {
		q = q.Where("business_user_id = ?", *filter.BusinessUserID)
	}
	if filter.ReviewerID != nil {
		q = q.Where("reviewer_id = ?", *filter.ReviewerID)
	}

	ordering, ok := ReviewOrderings[filter.Ordering]
	if !ok {
		ordering = ReviewOrderings[DefaultReviewOrdering]
	}

	var reviews []*models.Review
	err := q.Order(ordering).Find(&reviews).Error
	return reviews, err
}

// Update saves rating and description of a review
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).
		Model(&models.Review{ID: review.ID}).
		Updates(map[string]interface{}{
			"rating":      review.Rating,
			"description": review.Description,
		}).Error
}

// Delete deletes a review
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExistsForPair reports whether reviewer already reviewed the business user
func (r *reviewRepository) ExistsForPair(ctx context.Context, reviewerID, businessUserID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("reviewer_id = ? AND business_user_id = ?", reviewerID, businessUserID).
		Count(&count).Error
	return count > 0, err
}

// Stats returns the number of reviews and their mean rating (0 when none)
func (r *reviewRepository) Stats(ctx context.Context) (int64, float64, error) {
	var row struct {
		Count   int64
		Average float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Scan(&row).Error
	return row.Count, row.Average, err
}
