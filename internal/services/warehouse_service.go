package services

import (
	"context"
	"errors"

	"desynflow-backend/internal/models"
	"desynflow-backend/internal/repositories"
	"desynflow-backend/internal/timeutil"
	"desynflow-backend/internal/validation"
)

// WarehouseService covers disposal scheduling and inter-location transfer
// requests.
type WarehouseService struct {
	Disposals *repositories.DisposalMaterialRepository
	Transfers *repositories.TransferRequestRepository
}

func NewWarehouseService(disposals *repositories.DisposalMaterialRepository, transfers *repositories.TransferRequestRepository) *WarehouseService {
	return &WarehouseService{
		Disposals: disposals,
		Transfers: transfers,
	}
}

type CreateDisposalRequest struct {
	MaterialName      string  `json:"material_name"`
	Category          string  `json:"category"`
	Quantity          float64 `json:"quantity"`
	Unit              string  `json:"unit"`
	WarehouseLocation string  `json:"warehouse_location"`
	DisposalReason    string  `json:"disposal_reason"`
	ScheduledDate     string  `json:"scheduled_date"` // YYYY-MM-DD
}

func (s *WarehouseService) CreateDisposal(ctx context.Context, req *CreateDisposalRequest) (*models.DisposalMaterial, error) {
	d := &models.DisposalMaterial{
		MaterialName:      req.MaterialName,
		Category:          req.Category,
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		WarehouseLocation: req.WarehouseLocation,
		DisposalReason:    req.DisposalReason,
	}
	if fields := validation.ValidateDisposalMaterialInsert(d, req.ScheduledDate); len(fields) > 0 {
		return nil, validationErr(fields)
	}

	scheduled, err := timeutil.ParseDate(req.ScheduledDate)
	if err != nil {
		return nil, badInputf("scheduled_date must be YYYY-MM-DD")
	}
	d.ScheduledDate = scheduled

	if err := s.Disposals.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *WarehouseService) GetDisposal(ctx context.Context, id int) (*models.DisposalMaterial, error) {
	d, err := s.Disposals.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return d, err
}

func (s *WarehouseService) ListDisposals(ctx context.Context) ([]*models.DisposalMaterial, error) {
	return s.Disposals.List(ctx)
}

// UpdateDisposal applies a partial update; only supplied fields change.
func (s *WarehouseService) UpdateDisposal(ctx context.Context, id int, req *CreateDisposalRequest) (*models.DisposalMaterial, error) {
	d, err := s.GetDisposal(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := &models.DisposalMaterial{Quantity: req.Quantity}
	if fields := validation.ValidateDisposalMaterialUpdate(patch, req.ScheduledDate); len(fields) > 0 {
		return nil, validationErr(fields)
	}

	if req.MaterialName != "" {
		d.MaterialName = req.MaterialName
	}
	if req.Category != "" {
		d.Category = req.Category
	}
	if req.Quantity != 0 {
		d.Quantity = req.Quantity
	}
	if req.Unit != "" {
		d.Unit = req.Unit
	}
	if req.WarehouseLocation != "" {
		d.WarehouseLocation = req.WarehouseLocation
	}
	if req.DisposalReason != "" {
		d.DisposalReason = req.DisposalReason
	}
	if req.ScheduledDate != "" {
		scheduled, err := timeutil.ParseDate(req.ScheduledDate)
		if err != nil {
			return nil, badInputf("scheduled_date must be YYYY-MM-DD")
		}
		d.ScheduledDate = scheduled
	}

	if err := s.Disposals.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *WarehouseService) DeleteDisposal(ctx context.Context, id int) error {
	err := s.Disposals.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

type CreateTransferRequest struct {
	MaterialID   int     `json:"material_id"`
	Quantity     float64 `json:"quantity"`
	FromLocation string  `json:"from_location"`
	ToLocation   string  `json:"to_location"`
	RequiredBy   string  `json:"required_by"` // YYYY-MM-DD
	Notes        string  `json:"notes"`
}

func (s *WarehouseService) CreateTransfer(ctx context.Context, req *CreateTransferRequest) (*models.TransferRequest, error) {
	t := &models.TransferRequest{
		MaterialID:   req.MaterialID,
		Quantity:     req.Quantity,
		FromLocation: req.FromLocation,
		ToLocation:   req.ToLocation,
		Notes:        req.Notes,
		Status:       models.TransferStatusPending,
	}
	if fields := validation.ValidateTransferRequestInsert(t, req.RequiredBy); len(fields) > 0 {
		return nil, validationErr(fields)
	}
	if req.FromLocation == req.ToLocation {
		return nil, badInputf("from_location and to_location must differ")
	}

	requiredBy, err := timeutil.ParseDate(req.RequiredBy)
	if err != nil {
		return nil, badInputf("required_by must be YYYY-MM-DD")
	}
	t.RequiredBy = requiredBy

	if err := s.Transfers.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *WarehouseService) GetTransfer(ctx context.Context, id int) (*models.TransferRequest, error) {
	t, err := s.Transfers.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *WarehouseService) ListTransfers(ctx context.Context) ([]*models.TransferRequest, error) {
	return s.Transfers.List(ctx)
}

// UpdateTransfer applies a partial update, including a plain status change
// (pending → approved → completed, no guard beyond the known values).
func (s *WarehouseService) UpdateTransfer(ctx context.Context, id int, req *CreateTransferRequest, status string) (*models.TransferRequest, error) {
	t, err := s.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := &models.TransferRequest{Quantity: req.Quantity}
	if fields := validation.ValidateTransferRequestUpdate(patch, req.RequiredBy); len(fields) > 0 {
		return nil, validationErr(fields)
	}

	if req.Quantity != 0 {
		t.Quantity = req.Quantity
	}
	if req.FromLocation != "" {
		t.FromLocation = req.FromLocation
	}
	if req.ToLocation != "" {
		t.ToLocation = req.ToLocation
	}
	if req.Notes != "" {
		t.Notes = req.Notes
	}
	if req.RequiredBy != "" {
		requiredBy, err := timeutil.ParseDate(req.RequiredBy)
		if err != nil {
			return nil, badInputf("required_by must be YYYY-MM-DD")
		}
		t.RequiredBy = requiredBy
	}
	if status != "" {
		switch status {
		case models.TransferStatusPending, models.TransferStatusApproved, models.TransferStatusCompleted:
			t.Status = status
		default:
			return nil, badInputf("unknown transfer status %q", status)
		}
	}
	if t.FromLocation == t.ToLocation {
		return nil, badInputf("from_location and to_location must differ")
	}

	if err := s.Transfers.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *WarehouseService) DeleteTransfer(ctx context.Context, id int) error {
	err := s.Transfers.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
