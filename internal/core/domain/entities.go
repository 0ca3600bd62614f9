package domain

import "fmt"

// Role is the account type chosen at registration
type Role string

const (
	RoleBusiness Role = "business"
	RoleCustomer Role = "customer"
)

// ParseRole converts a raw account type into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBusiness:
		return RoleBusiness, nil
	case RoleCustomer:
		return RoleCustomer, nil
	}
	return "", fmt.Errorf("unknown account type %q", s)
}

// Actor is the authenticated caller of an operation
type Actor struct {
	ID       uint
	Username string
	Role     Role
	IsStaff  bool
}

// OfferType identifies one of the three pricing tiers of an offer
type OfferType string

const (
	OfferTypeBasic    OfferType = "basic"
	OfferTypeStandard OfferType = "standard"
	OfferTypePremium  OfferType = "premium"
)

// Valid reports whether t is a known tier
func (t OfferType) Valid() bool {
	switch t {
	case OfferTypeBasic, OfferTypeStandard, OfferTypePremium:
		return true
	}
	return false
}

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// MinOfferDetails is the number of tiers an offer must be created with
const MinOfferDetails = 3

// MinRating and MaxRating bound a review rating
const (
	MinRating = 1
	MaxRating = 5
)
