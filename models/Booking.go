package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking is a lease agreement on a property. Properties with bookings
// cannot be deleted.
type Booking struct {
	gorm.Model
	PropertyID  uint      `json:"propertyID" gorm:"index"`
	TenantID    uint      `json:"tenantID" gorm:"index"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	MonthlyRent float64   `json:"monthlyRent"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:pending"` // pending, confirmed, cancelled, completed
	Note        string    `json:"note"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Tenant   *User     `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}
