package domain

// Role capabilities. Every switch covers both roles; an unknown role
// (which ParseRole never produces) is denied.

// CanPublishOffers reports whether the role may create offers
func (r Role) CanPublishOffers() bool {
	switch r {
	case RoleBusiness:
		return true
	case RoleCustomer:
		return false
	}
	return false
}

// CanPlaceOrders reports whether the role may buy offer details
func (r Role) CanPlaceOrders() bool {
	switch r {
	case RoleBusiness:
		return false
	case RoleCustomer:
		return true
	}
	return false
}

// CanFulfilOrders reports whether the role may change order status
func (r Role) CanFulfilOrders() bool {
	switch r {
	case RoleBusiness:
		return true
	case RoleCustomer:
		return false
	}
	return false
}

// CanWriteReviews reports whether the role may review business accounts
func (r Role) CanWriteReviews() bool {
	switch r {
	case RoleBusiness:
		return false
	case RoleCustomer:
		return true
	}
	return false
}

// IsReviewable reports whether accounts of this role can receive reviews
// and order counts
func (r Role) IsReviewable() bool {
	switch r {
	case RoleBusiness:
		return true
	case RoleCustomer:
		return false
	}
	return false
}
