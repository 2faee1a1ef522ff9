package services

import (
	"strings"
	"time"

	"rentverse-server/models"

	"gorm.io/gorm"
)

// ApprovalService owns the property review lifecycle. Every path that writes
// a property status also writes its approval row in the same transaction, so
// the two cannot drift apart inside this service.
type ApprovalService struct {
	db     *gorm.DB
	policy *AutoApprovePolicy
}

func NewApprovalService(db *gorm.DB, policy *AutoApprovePolicy) *ApprovalService {
	return &ApprovalService{db: db, policy: policy}
}

// CreateProperty persists a new listing. The status is fixed by the
// auto-approve policy read at this instant: enabled means the listing goes
// live immediately with a synthetic approval row, disabled means it waits in
// PENDING_REVIEW with an open approval row.
func (s *ApprovalService) CreateProperty(property *models.Property) error {
	autoApprove := s.policy.Enabled()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if autoApprove {
			property.Status = models.StatusApproved
		} else {
			property.Status = models.StatusPendingReview
		}
		if err := tx.Create(property).Error; err != nil {
			return err
		}
		approval := models.PropertyApproval{PropertyID: property.ID}
		if autoApprove {
			now := time.Now()
			approval.Decision = models.DecisionApproved
			approval.Notes = "Auto-approved by policy"
			approval.DecidedAt = &now
		}
		return tx.Create(&approval).Error
	})
}

func (s *ApprovalService) Approve(propertyID, reviewerID uint, notes string) (*models.Property, error) {
	return s.decide(propertyID, reviewerID, models.DecisionApproved, strings.TrimSpace(notes))
}

// Reject requires a review note explaining the decision. The note check runs
// before any lookup so a blank note never costs a store round trip.
func (s *ApprovalService) Reject(propertyID, reviewerID uint, notes string) (*models.Property, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, &ValidationError{Field: "notes", Message: "Rejection notes are required"}
	}
	return s.decide(propertyID, reviewerID, models.DecisionRejected, notes)
}

func (s *ApprovalService) decide(propertyID, reviewerID uint, decision, notes string) (*models.Property, error) {
	var property models.Property
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Find(&property, propertyID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPropertyNotFound
		}
		if property.Status != models.StatusPendingReview {
			verb := "approved"
			if decision == models.DecisionRejected {
				verb = "rejected"
			}
			return &InvalidStateError{Message: "Only PENDING_REVIEW properties can be " + verb}
		}

		var approval models.PropertyApproval
		res = tx.Where("property_id = ? AND decision = ''", propertyID).
			Order("id DESC").Limit(1).Find(&approval)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrApprovalNotFound
		}

		now := time.Now()
		approval.ReviewerID = &reviewerID
		approval.Decision = decision
		approval.Notes = notes
		approval.DecidedAt = &now
		if err := tx.Save(&approval).Error; err != nil {
			return err
		}

		newStatus := models.StatusApproved
		if decision == models.DecisionRejected {
			newStatus = models.StatusRejected
		}
		property.Status = newStatus
		return tx.Model(&models.Property{}).Where("id = ?", property.ID).
			Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// Resubmit reopens review for a listing after an owner edit: the status drops
// back to PENDING_REVIEW and a fresh open approval row is appended.
func (s *ApprovalService) Resubmit(property *models.Property) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		property.Status = models.StatusPendingReview
		if err := tx.Model(&models.Property{}).Where("id = ?", property.ID).
			Update("status", models.StatusPendingReview).Error; err != nil {
			return err
		}
		return tx.Create(&models.PropertyApproval{PropertyID: property.ID}).Error
	})
}

// History returns every approval row for a property, newest first.
func (s *ApprovalService) History(propertyID uint) ([]models.PropertyApproval, error) {
	var rows []models.PropertyApproval
	err := s.db.Where("property_id = ?", propertyID).Order("id DESC").Find(&rows).Error
	return rows, err
}

// PendingReview lists properties waiting on a decision, oldest first so the
// review queue drains in submission order.
func (s *ApprovalService) PendingReview(page, perPage int) ([]models.Property, int64, error) {
	q := s.db.Model(&models.Property{}).Where("status = ?", models.StatusPendingReview)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Property
	err := q.Preload("Owner").Order("id ASC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error
	return rows, total, err
}

// FixInconsistencies realigns any property whose cached status contradicts
// its latest approval row. It is idempotent: a second run right after the
// first changes nothing. Returns the number of properties fixed.
func (s *ApprovalService) FixInconsistencies() (int, error) {
	fixed := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var properties []models.Property
		if err := tx.Find(&properties).Error; err != nil {
			return err
		}
		for i := range properties {
			property := &properties[i]

			var latest models.PropertyApproval
			res := tx.Where("property_id = ?", property.ID).
				Order("id DESC").Limit(1).Find(&latest)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// no review cycle yet; DRAFT and PENDING_REVIEW are both fine
				continue
			}

			want := ""
			switch latest.Decision {
			case models.DecisionApproved:
				want = models.StatusApproved
			case models.DecisionRejected:
				want = models.StatusRejected
			default:
				want = models.StatusPendingReview
			}
			if property.Status != want {
				if err := tx.Model(&models.Property{}).Where("id = ?", property.ID).
					Update("status", want).Error; err != nil {
					return err
				}
				fixed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return fixed, nil
}
