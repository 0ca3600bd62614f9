package repositories

import (
	"context"
	"strings"

	"coderr-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

const (
	minPriceExpr        = "(SELECT MIN(d.price) FROM offer_details d WHERE d.offer_id = offers.id)"
	minDeliveryTimeExpr = "(SELECT MIN(d.delivery_time_in_days) FROM offer_details d WHERE d.offer_id = offers.id)"
)

// OfferOrderings maps the accepted ordering values to ORDER BY clauses
var OfferOrderings = map[string]string{
	"updated_at":  "offers.updated_at ASC, offers.id ASC",
	"-updated_at": "offers.updated_at DESC, offers.id DESC",
	"min_price":   minPriceExpr + " ASC, offers.id ASC",
	"-min_price":  minPriceExpr + " DESC, offers.id DESC",
}

// DefaultOfferOrdering is used when no ordering is requested
const DefaultOfferOrdering = "updated_at"

// offerRepository implements OfferRepository interface
type offerRepository struct {
	db *gorm.DB
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

// CreateWithDetails inserts an offer and all its details atomically
func (r *offerRepository) CreateWithDetails(ctx context.Context, offer *models.Offer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		details := offer.Details
		offer.Details = nil
		if err := tx.Omit("User").Create(offer).Error; err != nil {
			return err
		}
		for i := range details {
			details[i].OfferID = offer.ID
		}
		if err := tx.Create(&details).Error; err != nil {
			return err
		}
		offer.Details = details
		return nil
	})
}

// GetByID gets an offer with its details and creator
func (r *offerRepository) GetByID(ctx context.Context, id uint) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("User").
		Where("id = ?", id).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// List returns one page of offers matching filter plus the total match count
func (r *offerRepository) List(ctx context.Context, filter OfferFilter, offset, limit int) ([]*models.Offer, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Model(&models.Offer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	ordering, ok := OfferOrderings[filter.Ordering]
	if !ok {
		ordering = OfferOrderings[DefaultOfferOrdering]
	}

	var offers []*models.Offer
	err := r.filtered(ctx, filter).
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("User").
		Order(ordering).
		Offset(offset).
		Limit(limit).
		Find(&offers).Error
	if err != nil {
		return nil, 0, err
	}

	return offers, total, nil
}

func (r *offerRepository) filtered(ctx context.Context, f OfferFilter) *gorm.DB {
	q := r.db.WithContext(ctx)
	if f.UserID != nil {
		q = q.Where("offers.user_id = ?", *f.UserID)
	}
	if f.MinPrice != nil {
		q = q.Where(minPriceExpr+" >= ?", *f.MinPrice)
	}
	if f.MinDeliveryTime != nil {
		q = q.Where(minDeliveryTimeExpr+" >= ?", *f.MinDeliveryTime)
	}
	if f.MaxDeliveryTime != nil {
		q = q.Where(minDeliveryTimeExpr+" <= ?", *f.MaxDeliveryTime)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		q = q.Where("LOWER(offers.title) LIKE ? ESCAPE '!' OR LOWER(offers.description) LIKE ? ESCAPE '!'", like, like)
	}
	return q
}

// likeEscaper makes search text match literally; '!' is the LIKE escape character
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// UpdateWithDetails saves the offer row and the given details atomically
func (r *offerRepository) UpdateWithDetails(ctx context.Context, offer *models.Offer, details []*models.OfferDetail) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Details").Save(offer).Error; err != nil {
			return err
		}
		for _, d := range details {
			if err := tx.Save(d).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes an offer and its details. It fails with ErrReferenced when
// any detail has been ordered.
func (r *offerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ordered int64
		err := tx.Model(&models.Order{}).
			Where("offer_detail_id IN (?)", tx.Model(&models.OfferDetail{}).Select("id").Where("offer_id = ?", id)).
			Count(&ordered).Error
		if err != nil {
			return err
		}
		if ordered > 0 {
			return ErrReferenced
		}

		if err := tx.Where("offer_id = ?", id).Delete(&models.OfferDetail{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Offer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Count counts all offers
func (r *offerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Offer{}).Count(&count).Error
	return count, err
}

// GetDetailByID gets a single offer detail
func (r *offerRepository) GetDetailByID(ctx context.Context, id uint) (*models.OfferDetail, error) {
	var detail models.OfferDetail
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&detail).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetDetailOwnerID returns the user who published the offer a detail belongs to
func (r *offerRepository) GetDetailOwnerID(ctx context.Context, detailID uint) (uint, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).
		Select("offers.user_id").
		Joins("JOIN offer_details ON offer_details.offer_id = offers.id").
		Where("offer_details.id = ?", detailID).
		First(&offer).Error
	if err != nil {
		return 0, err
	}
	return offer.UserID, nil
}
