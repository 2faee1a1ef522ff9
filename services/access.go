package services

import "rentverse-server/models"

// Requester is the identity the auth middleware attaches to a request.
// A zero ID means the caller is anonymous.
type Requester struct {
	ID   uint
	Role string
}

func (r Requester) IsAdmin() bool {
	return r.Role == "admin" || r.Role == "super_admin"
}

// CanViewProperty reports whether the requester may read the property.
// Non-owners never see DRAFT, PENDING_REVIEW or REJECTED listings.
func CanViewProperty(p *models.Property, r Requester) bool {
	if p.Status == models.StatusApproved {
		return true
	}
	if r.IsAdmin() {
		return true
	}
	return r.ID != 0 && r.ID == p.OwnerID
}

// CanMutateProperty returns an AccessDeniedError unless the requester owns
// the property or is an admin.
func CanMutateProperty(p *models.Property, r Requester) error {
	if r.IsAdmin() {
		return nil
	}
	if r.ID != 0 && r.ID == p.OwnerID {
		return nil
	}
	return &AccessDeniedError{Message: "Access denied"}
}
