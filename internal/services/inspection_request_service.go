package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"desynflow-backend/internal/metrics"
	"desynflow-backend/internal/models"
	"desynflow-backend/internal/repositories"
	"desynflow-backend/internal/timeutil"
	"desynflow-backend/internal/validation"
)

// RequestStore is the slice of the inspection request repository this
// service needs; tests substitute a fake.
type RequestStore interface {
	Create(ctx context.Context, req *models.InspectionRequest) error
	Get(ctx context.Context, id int) (*models.InspectionRequest, error)
	List(ctx context.Context) ([]*models.InspectionRequest, error)
	ListByClient(ctx context.Context, clientID int) ([]*models.InspectionRequest, error)
	ListByStatus(ctx context.Context, status string) ([]*models.InspectionRequest, error)
	ListByInspector(ctx context.Context, inspectorID int) ([]*models.InspectionRequest, error)
	Assign(ctx context.Context, requestID, inspectorID, version int) error
	Transition(ctx context.Context, requestID int, from, to string) error
	SetPaymentTerms(ctx context.Context, requestID int, amount float64, dueDate time.Time) error
}

// AvailabilityStore marks inspectors busy/available as work is assigned.
type AvailabilityStore interface {
	SetAvailability(ctx context.Context, inspectorID int, availability string) error
}

// NotificationSink records in-app notifications.
type NotificationSink interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Broadcaster pushes events to live dashboard clients.
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

type InspectionRequestService struct {
	Requests      RequestStore
	Locations     AvailabilityStore
	Notifications NotificationSink
	Hub           Broadcaster
}

func NewInspectionRequestService(requests RequestStore, locations AvailabilityStore, notifications NotificationSink, hub Broadcaster) *InspectionRequestService {
	return &InspectionRequestService{
		Requests:      requests,
		Locations:     locations,
		Notifications: notifications,
		Hub:           hub,
	}
}

// Create files a new inspection request for a client. The requested date
// must be a future calendar day.
func (s *InspectionRequestService) Create(ctx context.Context, clientID int, req *models.CreateInspectionRequestRequest) (*models.InspectionRequest, error) {
	if fields := validation.ValidateInspectionRequestInsert(req); len(fields) > 0 {
		return nil, validationErr(fields)
	}

	requestedDate, err := timeutil.ParseDate(req.RequestedDate)
	if err != nil {
		return nil, badInputf("requested_date must be YYYY-MM-DD")
	}

	record := &models.InspectionRequest{
		ClientID:        clientID,
		PropertyAddress: req.PropertyAddress,
		PropertyCity:    req.PropertyCity,
		PropertyType:    req.PropertyType,
		RequestedDate:   requestedDate,
		Status:          models.RequestStatusPending,
	}

	if err := s.Requests.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *InspectionRequestService) Get(ctx context.Context, id int) (*models.InspectionRequest, error) {
	req, err := s.Requests.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return req, err
}

// GetForClient enforces ownership: clients see only their own requests.
func (s *InspectionRequestService) GetForClient(ctx context.Context, id, clientID int) (*models.InspectionRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ClientID != clientID {
		return nil, ErrForbidden
	}
	return req, nil
}

func (s *InspectionRequestService) List(ctx context.Context, status string) ([]*models.InspectionRequest, error) {
	if status != "" {
		return s.Requests.ListByStatus(ctx, status)
	}
	return s.Requests.List(ctx)
}

func (s *InspectionRequestService) ListForClient(ctx context.Context, clientID int) ([]*models.InspectionRequest, error) {
	return s.Requests.ListByClient(ctx, clientID)
}

func (s *InspectionRequestService) ListForInspector(ctx context.Context, inspectorID int) ([]*models.InspectionRequest, error) {
	return s.Requests.ListByInspector(ctx, inspectorID)
}

// Assign hands a pending request to an inspector. The update is guarded by
// the version the caller read; a concurrent assignment loses with
// ErrConflict instead of silently overwriting.
func (s *InspectionRequestService) Assign(ctx context.Context, req *models.AssignInspectorRequest) (*models.InspectionRequest, error) {
	if req.RequestID <= 0 || req.InspectorID <= 0 {
		return nil, badInputf("request_id and inspector_id are required")
	}

	current, err := s.Get(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}
	if current.Status != models.RequestStatusPending {
		return nil, fmt.Errorf("%w: request is %s", ErrInvalidState, current.Status)
	}

	err = s.Requests.Assign(ctx, req.RequestID, req.InspectorID, req.Version)
	if errors.Is(err, repositories.ErrStaleVersion) {
		metrics.StateConflictsTotal.WithLabelValues("inspection_request").Inc()
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}

	if err := s.Locations.SetAvailability(ctx, req.InspectorID, models.AvailabilityBusy); err != nil {
		log.Printf("[Inspection] Failed to mark inspector %d busy: %v", req.InspectorID, err)
	}

	notification := &models.Notification{
		RecipientID: req.InspectorID,
		Type:        models.NotificationAssignment,
		Title:       "New inspection assigned",
		Message:     fmt.Sprintf("Inspection request #%d at %s has been assigned to you.", current.ID, current.PropertyAddress),
	}
	if err := s.Notifications.Create(ctx, notification); err != nil {
		log.Printf("[Inspection] Failed to create assignment notification: %v", err)
	}

	updated, err := s.Get(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	s.Hub.Broadcast("assignment", map[string]interface{}{
		"request_id":   updated.ID,
		"inspector_id": req.InspectorID,
		"status":       updated.Status,
	})

	return updated, nil
}

// Complete closes a paid request. The final state; nothing transitions out
// of it.
func (s *InspectionRequestService) Complete(ctx context.Context, id int) (*models.InspectionRequest, error) {
	err := s.Requests.Transition(ctx, id, models.RequestStatusPaid, models.RequestStatusCompleted)
	if errors.Is(err, repositories.ErrStaleVersion) {
		return nil, fmt.Errorf("%w: only paid requests can be completed", ErrInvalidState)
	}
	if err != nil {
		return nil, err
	}

	// Free the inspector once the engagement is closed.
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.InspectorID != nil {
		if err := s.Locations.SetAvailability(ctx, *req.InspectorID, models.AvailabilityAvailable); err != nil {
			log.Printf("[Inspection] Failed to free inspector %d: %v", *req.InspectorID, err)
		}
	}
	return req, nil
}

// OverdueBefore reports whether the request's payment window has lapsed at
// the given instant.
func OverdueBefore(req *models.InspectionRequest, at time.Time) bool {
	if req.PaymentDueDate == nil {
		return false
	}
	return req.Status == models.RequestStatusInspected && at.After(timeutil.DayStart(*req.PaymentDueDate).AddDate(0, 0, 1))
}
