package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"desynflow-backend/internal/models"
)

func pendingRequest(id, clientID, version int) *models.InspectionRequest {
	return &models.InspectionRequest{
		ID:              id,
		ClientID:        clientID,
		PropertyAddress: "12 Oak Lane",
		PropertyCity:    "Pune",
		PropertyType:    "apartment",
		Status:          models.RequestStatusPending,
		Version:         version,
	}
}

func newRequestService(requests *fakeRequests) (*InspectionRequestService, *fakeAvailability, *fakeNotifications, *fakeHub) {
	availability := newFakeAvailability()
	notifications := &fakeNotifications{}
	hub := &fakeHub{}
	return NewInspectionRequestService(requests, availability, notifications, hub), availability, notifications, hub
}

func TestCreateRequestRejectsPastDate(t *testing.T) {
	svc, _, _, _ := newRequestService(newFakeRequests())

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	_, err := svc.Create(context.Background(), 1, &models.CreateInspectionRequestRequest{
		PropertyAddress: "12 Oak Lane",
		PropertyCity:    "Pune",
		PropertyType:    "apartment",
		RequestedDate:   yesterday,
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := vErr.Fields["requested_date"]; !ok {
		t.Errorf("expected requested_date in fields, got %v", vErr.Fields)
	}
}

func TestCreateRequestStartsPending(t *testing.T) {
	svc, _, _, _ := newRequestService(newFakeRequests())

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	req, err := svc.Create(context.Background(), 7, &models.CreateInspectionRequestRequest{
		PropertyAddress: "12 Oak Lane",
		PropertyCity:    "Pune",
		PropertyType:    "apartment",
		RequestedDate:   tomorrow,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if req.Status != models.RequestStatusPending {
		t.Errorf("status = %q, want pending", req.Status)
	}
	if req.ClientID != 7 {
		t.Errorf("client = %d, want 7", req.ClientID)
	}
}

func TestAssignMarksInspectorBusyAndNotifies(t *testing.T) {
	requests := newFakeRequests(pendingRequest(1, 7, 1))
	svc, availability, notifications, hub := newRequestService(requests)

	updated, err := svc.Assign(context.Background(), &models.AssignInspectorRequest{
		RequestID:   1,
		InspectorID: 42,
		Version:     1,
	})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if updated.Status != models.RequestStatusAssigned {
		t.Errorf("status = %q, want assigned", updated.Status)
	}
	if updated.InspectorID == nil || *updated.InspectorID != 42 {
		t.Errorf("inspector = %v, want 42", updated.InspectorID)
	}
	if availability.states[42] != models.AvailabilityBusy {
		t.Errorf("inspector availability = %q, want busy", availability.states[42])
	}
	if len(notifications.created) != 1 || notifications.created[0].RecipientID != 42 {
		t.Errorf("expected one notification to inspector 42, got %+v", notifications.created)
	}
	if len(hub.events) != 1 || hub.events[0] != "assignment" {
		t.Errorf("expected assignment broadcast, got %v", hub.events)
	}
}

func TestAssignStaleVersionConflicts(t *testing.T) {
	requests := newFakeRequests(pendingRequest(1, 7, 3))
	svc, _, _, _ := newRequestService(requests)

	// Caller read version 2 but the row is at 3: someone else got there
	// first.
	_, err := svc.Assign(context.Background(), &models.AssignInspectorRequest{
		RequestID:   1,
		InspectorID: 42,
		Version:     2,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAssignConcurrentSecondLoses(t *testing.T) {
	requests := newFakeRequests(pendingRequest(1, 7, 1))
	svc, _, _, _ := newRequestService(requests)

	if _, err := svc.Assign(context.Background(), &models.AssignInspectorRequest{RequestID: 1, InspectorID: 42, Version: 1}); err != nil {
		t.Fatalf("first assign: %v", err)
	}

	_, err := svc.Assign(context.Background(), &models.AssignInspectorRequest{RequestID: 1, InspectorID: 43, Version: 1})
	if err == nil {
		t.Fatal("second assign should fail")
	}
	if !errors.Is(err, ErrInvalidState) && !errors.Is(err, ErrConflict) {
		t.Errorf("expected state or conflict error, got %v", err)
	}

	// Winner is untouched.
	req, _ := svc.Get(context.Background(), 1)
	if *req.InspectorID != 42 {
		t.Errorf("inspector = %d, want 42", *req.InspectorID)
	}
}

func TestCompleteOnlyFromPaid(t *testing.T) {
	req := pendingRequest(1, 7, 1)
	req.Status = models.RequestStatusAssigned
	svc, _, _, _ := newRequestService(newFakeRequests(req))

	_, err := svc.Complete(context.Background(), 1)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestCompleteFreesInspector(t *testing.T) {
	inspectorID := 42
	req := pendingRequest(1, 7, 1)
	req.Status = models.RequestStatusPaid
	req.InspectorID = &inspectorID
	svc, availability, _, _ := newRequestService(newFakeRequests(req))

	updated, err := svc.Complete(context.Background(), 1)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if updated.Status != models.RequestStatusCompleted {
		t.Errorf("status = %q, want completed", updated.Status)
	}
	if availability.states[42] != models.AvailabilityAvailable {
		t.Errorf("inspector availability = %q, want available", availability.states[42])
	}
}

func TestGetForClientEnforcesOwnership(t *testing.T) {
	svc, _, _, _ := newRequestService(newFakeRequests(pendingRequest(1, 7, 1)))

	if _, err := svc.GetForClient(context.Background(), 1, 7); err != nil {
		t.Errorf("owner should see the request: %v", err)
	}
	if _, err := svc.GetForClient(context.Background(), 1, 8); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-owner, got %v", err)
	}
}
