package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"desynflow-backend/internal/models"
)

func assignedRequest(id, clientID, inspectorID int) *models.InspectionRequest {
	return &models.InspectionRequest{
		ID:              id,
		ClientID:        clientID,
		InspectorID:     &inspectorID,
		PropertyAddress: "12 Oak Lane",
		Status:          models.RequestStatusAssigned,
		Version:         2,
	}
}

func validFormData() json.RawMessage {
	return json.RawMessage(`{"summary":"minor damp in kitchen","condition_rating":4,"extra_note":"south wall"}`)
}

func TestSubmitFormTransitionsRequest(t *testing.T) {
	requests := newFakeRequests(assignedRequest(1, 7, 42))
	forms := newFakeForms()
	notifications := &fakeNotifications{}
	svc := NewInspectionFormService(forms, requests, notifications)

	form, err := svc.Submit(context.Background(), 42, &models.SubmitInspectionFormRequest{
		RequestID: 1,
		FormData:  validFormData(),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if form.Status != models.FormStatusSubmitted {
		t.Errorf("form status = %q, want submitted", form.Status)
	}

	req, _ := requests.Get(context.Background(), 1)
	if req.Status != models.RequestStatusInspected {
		t.Errorf("request status = %q, want inspected", req.Status)
	}
	if len(notifications.created) != 1 || notifications.created[0].RecipientID != 7 {
		t.Errorf("expected notification to client 7, got %+v", notifications.created)
	}
}

func TestSubmitFormOnlyAssignedInspector(t *testing.T) {
	requests := newFakeRequests(assignedRequest(1, 7, 42))
	svc := NewInspectionFormService(newFakeForms(), requests, &fakeNotifications{})

	_, err := svc.Submit(context.Background(), 99, &models.SubmitInspectionFormRequest{
		RequestID: 1,
		FormData:  validFormData(),
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSubmitFormRequiresAssignedState(t *testing.T) {
	req := assignedRequest(1, 7, 42)
	req.Status = models.RequestStatusInspected
	svc := NewInspectionFormService(newFakeForms(), newFakeRequests(req), &fakeNotifications{})

	_, err := svc.Submit(context.Background(), 42, &models.SubmitInspectionFormRequest{
		RequestID: 1,
		FormData:  validFormData(),
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestSubmitFormRejectsMissingRequiredKeys(t *testing.T) {
	svc := NewInspectionFormService(newFakeForms(), newFakeRequests(assignedRequest(1, 7, 42)), &fakeNotifications{})

	_, err := svc.Submit(context.Background(), 42, &models.SubmitInspectionFormRequest{
		RequestID: 1,
		FormData:  json.RawMessage(`{"summary":"no rating here"}`),
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitFormOncePerRequest(t *testing.T) {
	requests := newFakeRequests(assignedRequest(1, 7, 42))
	forms := newFakeForms()
	svc := NewInspectionFormService(forms, requests, &fakeNotifications{})

	if _, err := svc.Submit(context.Background(), 42, &models.SubmitInspectionFormRequest{
		RequestID: 1,
		FormData:  validFormData(),
	}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// Force the request back to assigned to isolate the duplicate-form
	// guard.
	requests.byID[1].Status = models.RequestStatusAssigned
	_, err := svc.Submit(context.Background(), 42, &models.SubmitInspectionFormRequest{
		RequestID: 1,
		FormData:  validFormData(),
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for duplicate form, got %v", err)
	}
}

func TestReviewRejectRequiresComments(t *testing.T) {
	requests := newFakeRequests(assignedRequest(1, 7, 42))
	forms := newFakeForms()
	svc := NewInspectionFormService(forms, requests, &fakeNotifications{})

	form, err := svc.Submit(context.Background(), 42, &models.SubmitInspectionFormRequest{
		RequestID: 1,
		FormData:  validFormData(),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := svc.Review(context.Background(), form.ID, &models.ReviewInspectionFormRequest{Action: "reject"}); err == nil {
		t.Error("expected error for rejection without comments")
	}

	reviewed, err := svc.Review(context.Background(), form.ID, &models.ReviewInspectionFormRequest{
		Action:   "reject",
		Comments: "photos missing for the east wing",
	})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if reviewed.Status != models.FormStatusRejected {
		t.Errorf("form status = %q, want rejected", reviewed.Status)
	}
}

func TestReviewTwiceFails(t *testing.T) {
	requests := newFakeRequests(assignedRequest(1, 7, 42))
	forms := newFakeForms()
	svc := NewInspectionFormService(forms, requests, &fakeNotifications{})

	form, err := svc.Submit(context.Background(), 42, &models.SubmitInspectionFormRequest{
		RequestID: 1,
		FormData:  validFormData(),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := svc.Review(context.Background(), form.ID, &models.ReviewInspectionFormRequest{Action: "approve"}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := svc.Review(context.Background(), form.ID, &models.ReviewInspectionFormRequest{Action: "approve"}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second review should fail, got %v", err)
	}
}
