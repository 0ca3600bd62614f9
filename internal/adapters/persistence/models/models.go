package models

import (
	"time"

	"coderr-backend/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Accounts & Sessions
// ============================================================

// User represents users table (both business and customer accounts)
type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Username     string      `gorm:"size:150;not null;index" json:"username"`
	Email        string      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password     string      `gorm:"size:255;not null" json:"-"`
	Type         domain.Role `gorm:"column:account_type;size:20;not null;index" json:"type"`
	IsStaff      bool        `gorm:"default:false" json:"-"`
	FirstName    string      `gorm:"size:255" json:"first_name"`
	LastName     string      `gorm:"size:255" json:"last_name"`
	Location     string      `gorm:"size:255" json:"location"`
	Tel          string      `gorm:"size:50" json:"tel"`
	Description  string      `gorm:"type:text" json:"description"`
	WorkingHours string      `gorm:"size:100" json:"working_hours"`
	File         string      `gorm:"size:255" json:"file"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Actor returns the authorization view of the user
func (u *User) Actor() *domain.Actor {
	return &domain.Actor{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Type,
		IsStaff:  u.IsStaff,
	}
}

// AuthToken represents auth_tokens table. One session per user; the
// token string is derived from TokenID and CreatedAt.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	TokenID   string    `gorm:"size:36;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}

// ============================================================
// Catalog
// ============================================================

// Offer represents offers table
type Offer struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UserID      uint          `gorm:"not null;index" json:"user"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Image       string        `gorm:"size:255" json:"image"`
	Description string        `gorm:"type:text" json:"description"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime;index" json:"updated_at"`
	User        *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Details     []OfferDetail `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE" json:"details"`
}

func (Offer) TableName() string {
	return "offers"
}

// MinPrice returns the lowest detail price, nil when the offer has no details
func (o *Offer) MinPrice() *int {
	var min *int
	for i := range o.Details {
		if min == nil || o.Details[i].Price < *min {
			v := o.Details[i].Price
			min = &v
		}
	}
	return min
}

// MinDeliveryTime returns the shortest detail delivery time
func (o *Offer) MinDeliveryTime() *int {
	var min *int
	for i := range o.Details {
		if min == nil || o.Details[i].DeliveryTimeInDays < *min {
			v := o.Details[i].DeliveryTimeInDays
			min = &v
		}
	}
	return min
}

// DetailByType returns the detail of the given tier
func (o *Offer) DetailByType(t domain.OfferType) *OfferDetail {
	for i := range o.Details {
		if o.Details[i].OfferType == t {
			return &o.Details[i]
		}
	}
	return nil
}

// OfferDetail represents offer_details table (one pricing tier of an offer)
type OfferDetail struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	OfferID            uint             `gorm:"not null;uniqueIndex:idx_offer_detail_type" json:"-"`
	Title              string           `gorm:"size:255;not null" json:"title"`
	Revisions          int              `gorm:"not null" json:"revisions"`
	DeliveryTimeInDays int              `gorm:"not null" json:"delivery_time_in_days"`
	Price              int              `gorm:"not null" json:"price"`
	Features           []string         `gorm:"serializer:json;type:text" json:"features"`
	OfferType          domain.OfferType `gorm:"size:20;not null;uniqueIndex:idx_offer_detail_type" json:"offer_type"`
}

func (OfferDetail) TableName() string {
	return "offer_details"
}

// ============================================================
// Orders & Reviews
// ============================================================

// Order represents orders table. Title through OfferType are copied from
// the offer detail when the order is created and never re-synced.
type Order struct {
	ID                 uint               `gorm:"primaryKey" json:"id"`
	CustomerUserID     uint               `gorm:"not null;index" json:"customer_user"`
	BusinessUserID     uint               `gorm:"not null;index:idx_order_business_status" json:"business_user"`
	OfferDetailID      uint               `gorm:"not null;index" json:"offer_detail"`
	Title              string             `gorm:"size:255;not null" json:"title"`
	Revisions          int                `gorm:"not null" json:"revisions"`
	DeliveryTimeInDays int                `gorm:"not null" json:"delivery_time_in_days"`
	Price              int                `gorm:"not null" json:"price"`
	Features           []string           `gorm:"serializer:json;type:text" json:"features"`
	OfferType          domain.OfferType   `gorm:"size:20;not null" json:"offer_type"`
	Status             domain.OrderStatus `gorm:"size:20;not null;default:'in_progress';index:idx_order_business_status" json:"status"`
	CreatedAt          time.Time          `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
	CustomerUser       *User              `gorm:"foreignKey:CustomerUserID;constraint:OnDelete:CASCADE" json:"-"`
	BusinessUser       *User              `gorm:"foreignKey:BusinessUserID;constraint:OnDelete:CASCADE" json:"-"`
	OfferDetail        *OfferDetail       `gorm:"foreignKey:OfferDetailID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// Review represents reviews table; one row per (business_user, reviewer)
type Review struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BusinessUserID uint      `gorm:"not null;uniqueIndex:idx_review_pair" json:"business_user"`
	ReviewerID     uint      `gorm:"not null;uniqueIndex:idx_review_pair;index" json:"reviewer"`
	Rating         int       `gorm:"not null" json:"rating"`
	Description    string    `gorm:"type:text" json:"description"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	BusinessUser   *User     `gorm:"foreignKey:BusinessUserID;constraint:OnDelete:CASCADE" json:"-"`
	Reviewer       *User     `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&AuthToken{},
		&Offer{},
		&OfferDetail{},
		&Order{},
		&Review{},
	)
}
