package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"desynflow-backend/internal/models"
	"desynflow-backend/internal/repositories"
	"desynflow-backend/internal/validation"
)

// FormStore is the slice of the inspection form repository this service
// needs.
type FormStore interface {
	Create(ctx context.Context, form *models.InspectionForm) error
	Get(ctx context.Context, id int) (*models.InspectionForm, error)
	GetByRequest(ctx context.Context, requestID int) (*models.InspectionForm, error)
	ListByStatus(ctx context.Context, status string) ([]*models.InspectionForm, error)
	Review(ctx context.Context, id int, status, comments string) error
}

type InspectionFormService struct {
	Forms         FormStore
	Requests      RequestStore
	Notifications NotificationSink
}

func NewInspectionFormService(forms FormStore, requests RequestStore, notifications NotificationSink) *InspectionFormService {
	return &InspectionFormService{
		Forms:         forms,
		Requests:      requests,
		Notifications: notifications,
	}
}

// Submit records the inspector's findings and moves the request from
// assigned to inspected. Only the assigned inspector may submit, and only
// once per request.
func (s *InspectionFormService) Submit(ctx context.Context, inspectorID int, req *models.SubmitInspectionFormRequest) (*models.InspectionForm, error) {
	if fields := validation.ValidateInspectionFormData(req.FormData); len(fields) > 0 {
		return nil, validationErr(fields)
	}

	request, err := s.Requests.Get(ctx, req.RequestID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if request.InspectorID == nil || *request.InspectorID != inspectorID {
		return nil, ErrForbidden
	}
	if request.Status != models.RequestStatusAssigned {
		return nil, fmt.Errorf("%w: request is %s", ErrInvalidState, request.Status)
	}

	if existing, _ := s.Forms.GetByRequest(ctx, req.RequestID); existing != nil {
		return nil, fmt.Errorf("%w: form already submitted for this request", ErrInvalidState)
	}

	form := &models.InspectionForm{
		RequestID:   req.RequestID,
		InspectorID: inspectorID,
		FormData:    req.FormData,
	}
	if err := s.Forms.Create(ctx, form); err != nil {
		return nil, err
	}

	err = s.Requests.Transition(ctx, req.RequestID, models.RequestStatusAssigned, models.RequestStatusInspected)
	if errors.Is(err, repositories.ErrStaleVersion) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		RecipientID: request.ClientID,
		Type:        models.NotificationInspection,
		Title:       "Inspection completed",
		Message:     fmt.Sprintf("The inspection at %s is done. Payment details will follow.", request.PropertyAddress),
	}
	if err := s.Notifications.Create(ctx, notification); err != nil {
		log.Printf("[Inspection] Failed to notify client %d: %v", request.ClientID, err)
	}

	return form, nil
}

func (s *InspectionFormService) Get(ctx context.Context, id int) (*models.InspectionForm, error) {
	form, err := s.Forms.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return form, err
}

func (s *InspectionFormService) GetByRequest(ctx context.Context, requestID int) (*models.InspectionForm, error) {
	form, err := s.Forms.GetByRequest(ctx, requestID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return form, err
}

func (s *InspectionFormService) ListPendingReview(ctx context.Context) ([]*models.InspectionForm, error) {
	return s.Forms.ListByStatus(ctx, models.FormStatusSubmitted)
}

// Review approves or rejects a submitted form. Rejection sends the form
// back to the inspector with the reviewer's comments.
func (s *InspectionFormService) Review(ctx context.Context, id int, req *models.ReviewInspectionFormRequest) (*models.InspectionForm, error) {
	var status string
	switch req.Action {
	case "approve":
		status = models.FormStatusApproved
	case "reject":
		status = models.FormStatusRejected
		if req.Comments == "" {
			return nil, badInputf("comments are required when rejecting a form")
		}
	default:
		return nil, badInputf("action must be approve or reject")
	}

	err := s.Forms.Review(ctx, id, status, req.Comments)
	if errors.Is(err, repositories.ErrStaleVersion) {
		return nil, fmt.Errorf("%w: form is not awaiting review", ErrInvalidState)
	}
	if err != nil {
		return nil, err
	}

	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		RecipientID: form.InspectorID,
		Type:        models.NotificationInspection,
		Title:       fmt.Sprintf("Inspection form %s", status),
		Message:     req.Comments,
	}
	if err := s.Notifications.Create(ctx, notification); err != nil {
		log.Printf("[Inspection] Failed to notify inspector %d: %v", form.InspectorID, err)
	}

	return form, nil
}
