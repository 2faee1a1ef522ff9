package services

import (
	"errors"
	"testing"

	"rentverse-server/models"
)

func TestCanViewProperty(t *testing.T) {
	tests := []struct {
		name      string
		requester Requester
		status    string
		ownerID   uint
		want      bool
	}{
		{"anonymous sees approved", Requester{}, models.StatusApproved, 7, true},
		{"anonymous cannot see pending", Requester{}, models.StatusPendingReview, 7, false},
		{"anonymous cannot see rejected", Requester{}, models.StatusRejected, 7, false},
		{"stranger cannot see pending", Requester{ID: 3, Role: "user"}, models.StatusPendingReview, 7, false},
		{"owner sees own pending", Requester{ID: 7, Role: "user"}, models.StatusPendingReview, 7, true},
		{"owner sees own rejected", Requester{ID: 7, Role: "user"}, models.StatusRejected, 7, true},
		{"admin sees pending", Requester{ID: 1, Role: "admin"}, models.StatusPendingReview, 7, true},
		{"super admin sees draft", Requester{ID: 1, Role: "super_admin"}, models.StatusDraft, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			property := &models.Property{OwnerID: tt.ownerID, Status: tt.status}
			if got := CanViewProperty(property, tt.requester); got != tt.want {
				t.Errorf("CanViewProperty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanMutateProperty(t *testing.T) {
	property := &models.Property{OwnerID: 7, Status: models.StatusApproved}

	if err := CanMutateProperty(property, Requester{ID: 7, Role: "user"}); err != nil {
		t.Errorf("owner should be allowed to mutate, got %v", err)
	}
	if err := CanMutateProperty(property, Requester{ID: 1, Role: "admin"}); err != nil {
		t.Errorf("admin should be allowed to mutate, got %v", err)
	}

	err := CanMutateProperty(property, Requester{ID: 3, Role: "user"})
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}

	if err := CanMutateProperty(property, Requester{}); err == nil {
		t.Error("anonymous requester should be denied")
	}
}
