package services

import (
	"errors"
	"testing"

	"rentverse-server/models"

	"gorm.io/gorm"
)

func newApprovalService(t *testing.T) (*ApprovalService, *AutoApprovePolicy, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	policy := NewAutoApprovePolicy()
	return NewApprovalService(db, policy), policy, db
}

func createPending(t *testing.T, svc *ApprovalService, code string) *models.Property {
	t.Helper()
	property := &models.Property{Code: code, OwnerID: 7, Title: "Test Listing", City: "Kuala Lumpur", Lat: 3.15, Lng: 101.7, Price: 1500}
	if err := svc.CreateProperty(property); err != nil {
		t.Fatalf("create property: %v", err)
	}
	return property
}

func approvalRows(t *testing.T, db *gorm.DB, propertyID uint) []models.PropertyApproval {
	t.Helper()
	var rows []models.PropertyApproval
	if err := db.Where("property_id = ?", propertyID).Order("id ASC").Find(&rows).Error; err != nil {
		t.Fatalf("load approvals: %v", err)
	}
	return rows
}

func reloadProperty(t *testing.T, db *gorm.DB, id uint) *models.Property {
	t.Helper()
	var property models.Property
	if err := db.First(&property, id).Error; err != nil {
		t.Fatalf("reload property: %v", err)
	}
	return &property
}

func TestCreatePropertyPendingByDefault(t *testing.T) {
	svc, _, db := newApprovalService(t)

	property := createPending(t, svc, "RV-PEND01")
	if property.Status != models.StatusPendingReview {
		t.Errorf("Status = %q, want PENDING_REVIEW", property.Status)
	}

	rows := approvalRows(t, db, property.ID)
	if len(rows) != 1 {
		t.Fatalf("got %d approval rows, want 1", len(rows))
	}
	if rows[0].Decision != "" {
		t.Errorf("Decision = %q, want open record", rows[0].Decision)
	}
	if rows[0].DecidedAt != nil || rows[0].ReviewerID != nil {
		t.Error("open record must have no reviewer or decision time")
	}
}

func TestCreatePropertyAutoApprove(t *testing.T) {
	svc, policy, db := newApprovalService(t)
	policy.Set(true, 1)

	property := createPending(t, svc, "RV-AUTO01")
	if property.Status != models.StatusApproved {
		t.Errorf("Status = %q, want APPROVED", property.Status)
	}

	rows := approvalRows(t, db, property.ID)
	if len(rows) != 1 {
		t.Fatalf("got %d approval rows, want 1", len(rows))
	}
	if rows[0].Decision != models.DecisionApproved {
		t.Errorf("Decision = %q, want APPROVED", rows[0].Decision)
	}
	if rows[0].ReviewerID != nil {
		t.Error("auto-approval must record no human reviewer")
	}
	if rows[0].DecidedAt == nil {
		t.Error("auto-approval must record a decision time")
	}
}

func TestApprove(t *testing.T) {
	svc, _, db := newApprovalService(t)
	property := createPending(t, svc, "RV-APPR01")

	approved, err := svc.Approve(property.ID, 9, "looks good")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Errorf("Status = %q, want APPROVED", approved.Status)
	}

	rows := approvalRows(t, db, property.ID)
	if len(rows) != 1 {
		t.Fatalf("got %d approval rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Decision != models.DecisionApproved || row.Notes != "looks good" {
		t.Errorf("row = %+v", row)
	}
	if row.ReviewerID == nil || *row.ReviewerID != 9 {
		t.Errorf("ReviewerID = %v, want 9", row.ReviewerID)
	}
	if row.DecidedAt == nil {
		t.Error("DecidedAt must be set")
	}
}

func TestRejectThenResubmit(t *testing.T) {
	svc, _, db := newApprovalService(t)
	property := createPending(t, svc, "RV-REJ01")

	rejected, err := svc.Reject(property.ID, 9, "photos missing")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != models.StatusRejected {
		t.Errorf("Status = %q, want REJECTED", rejected.Status)
	}

	if err := svc.Resubmit(rejected); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if got := reloadProperty(t, db, property.ID); got.Status != models.StatusPendingReview {
		t.Errorf("Status after resubmit = %q, want PENDING_REVIEW", got.Status)
	}

	rows := approvalRows(t, db, property.ID)
	if len(rows) != 2 {
		t.Fatalf("got %d approval rows, want 2", len(rows))
	}
	if rows[1].Decision != "" {
		t.Errorf("latest row should be open, got %q", rows[1].Decision)
	}
}

func TestDecideOnlyFromPendingReview(t *testing.T) {
	svc, _, db := newApprovalService(t)
	property := createPending(t, svc, "RV-ONCE01")

	if _, err := svc.Approve(property.ID, 9, ""); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	var invalid *InvalidStateError
	if _, err := svc.Approve(property.ID, 9, ""); !errors.As(err, &invalid) {
		t.Fatalf("second approve: expected InvalidStateError, got %v", err)
	}
	if _, err := svc.Reject(property.ID, 9, "late"); !errors.As(err, &invalid) {
		t.Fatalf("reject after approve: expected InvalidStateError, got %v", err)
	}

	if got := reloadProperty(t, db, property.ID); got.Status != models.StatusApproved {
		t.Errorf("status changed by failed decision: %q", got.Status)
	}
	if rows := approvalRows(t, db, property.ID); len(rows) != 1 {
		t.Errorf("failed decisions appended rows: %d", len(rows))
	}
}

func TestRejectRequiresNotes(t *testing.T) {
	// A nil store proves the note check never reaches the database.
	svc := NewApprovalService(nil, NewAutoApprovePolicy())

	_, err := svc.Reject(1, 9, "   ")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "notes" {
		t.Errorf("Field = %q, want notes", vErr.Field)
	}
}

func TestDecideMissingProperty(t *testing.T) {
	svc, _, _ := newApprovalService(t)

	if _, err := svc.Approve(999, 9, ""); !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestDecideMissingApprovalRecord(t *testing.T) {
	svc, _, db := newApprovalService(t)

	// A pending property written outside the service has no open row.
	property := models.Property{Code: "RV-ORPH01", OwnerID: 7, Status: models.StatusPendingReview}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Approve(property.ID, 9, ""); !errors.Is(err, ErrApprovalNotFound) {
		t.Errorf("expected ErrApprovalNotFound, got %v", err)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	svc, _, _ := newApprovalService(t)
	property := createPending(t, svc, "RV-HIST01")

	if _, err := svc.Reject(property.ID, 9, "fix the price"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := svc.Resubmit(property); err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	rows, err := svc.History(property.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Decision != "" || rows[1].Decision != models.DecisionRejected {
		t.Errorf("history not newest first: %q then %q", rows[0].Decision, rows[1].Decision)
	}
}

func TestPendingReviewQueue(t *testing.T) {
	svc, _, _ := newApprovalService(t)

	first := createPending(t, svc, "RV-Q01")
	second := createPending(t, svc, "RV-Q02")
	if _, err := svc.Approve(first.ID, 9, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	rows, total, err := svc.PendingReview(1, 20)
	if err != nil {
		t.Fatalf("pending review: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("total = %d, rows = %d, want 1 and 1", total, len(rows))
	}
	if rows[0].ID != second.ID {
		t.Errorf("queue returned property %d, want %d", rows[0].ID, second.ID)
	}
}

func TestFixInconsistencies(t *testing.T) {
	svc, _, db := newApprovalService(t)

	property := createPending(t, svc, "RV-FIX01")
	if _, err := svc.Approve(property.ID, 9, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	untouched := createPending(t, svc, "RV-FIX02")

	// Corrupt the cached status behind the service's back.
	if err := db.Model(&models.Property{}).Where("id = ?", property.ID).
		Update("status", models.StatusRejected).Error; err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	fixed, err := svc.FixInconsistencies()
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if fixed != 1 {
		t.Errorf("fixed = %d, want 1", fixed)
	}
	if got := reloadProperty(t, db, property.ID); got.Status != models.StatusApproved {
		t.Errorf("status not realigned: %q", got.Status)
	}
	if got := reloadProperty(t, db, untouched.ID); got.Status != models.StatusPendingReview {
		t.Errorf("consistent property was touched: %q", got.Status)
	}

	// Idempotent: a second pass finds nothing to do.
	fixed, err = svc.FixInconsistencies()
	if err != nil {
		t.Fatalf("second fix: %v", err)
	}
	if fixed != 0 {
		t.Errorf("second pass fixed = %d, want 0", fixed)
	}
}
