package models

import (
	"time"

	"gorm.io/gorm"
)

// Decisions recorded on a PropertyApproval. An empty decision means the
// submission is still waiting for review.
const (
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

// PropertyApproval is an append-style audit row for one review cycle of a
// property. The most recent row per property is the active record; rows are
// never deleted. A decided row with a nil reviewer was auto-approved by the
// system.
type PropertyApproval struct {
	gorm.Model
	PropertyID uint       `json:"propertyID" gorm:"index;not null"`
	ReviewerID *uint      `json:"reviewerID"`
	Decision   string     `json:"decision" gorm:"type:varchar(20);index"`
	Notes      string     `json:"notes" gorm:"type:text"`
	DecidedAt  *time.Time `json:"decidedAt"`

	Reviewer *User `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
}
