package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property lifecycle statuses. The status column must always agree with the
// latest decided PropertyApproval row; the reconciliation service repairs
// any drift.
const (
	StatusDraft         = "DRAFT"
	StatusPendingReview = "PENDING_REVIEW"
	StatusApproved      = "APPROVED"
	StatusRejected      = "REJECTED"
)

type Property struct {
	gorm.Model
	Code           string         `json:"code" gorm:"type:varchar(20);uniqueIndex"`
	OwnerID        uint           `json:"ownerID" gorm:"index"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	PropertyTypeID *uint          `json:"propertyTypeID" gorm:"index"`
	Address        string         `json:"address"`
	City           string         `json:"city" gorm:"index"`
	State          string         `json:"state"`
	Country        string         `json:"country"`
	Lat            float64        `json:"lat"`
	Lng            float64        `json:"lng"`
	Price          float64        `json:"price"`
	Bedrooms       int            `json:"bedrooms"`
	Bathrooms      float64        `json:"bathrooms"`
	AreaSqft       float64        `json:"areaSqft"`
	Furnished      *bool          `json:"furnished"`
	IsAvailable    *bool          `json:"isAvailable" gorm:"default:true"`
	AmenityIDs     datatypes.JSON `json:"amenityIDs"`
	Status         string         `json:"status" gorm:"type:varchar(20);default:'PENDING_REVIEW';index"`

	Owner        *User              `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	PropertyType *PropertyType      `json:"propertyType,omitempty"`
	Approvals    []PropertyApproval `json:"approvals,omitempty" gorm:"foreignKey:PropertyID"`
	Bookings     []Booking          `json:"bookings,omitempty" gorm:"foreignKey:PropertyID"`
}
