package services

import (
	"context"
	"errors"

	"desynflow-backend/internal/auth"
	"desynflow-backend/internal/models"
	"desynflow-backend/internal/repositories"
	"desynflow-backend/internal/validation"
)

// SupplierStore is the slice of the supplier repository this service
// needs; tests substitute a fake.
type SupplierStore interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	Get(ctx context.Context, id int) (*models.Supplier, error)
	GetByEmail(ctx context.Context, email string) (*models.Supplier, error)
	List(ctx context.Context) ([]*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id int) error
	Catalog(ctx context.Context, supplierID int) ([]*models.CatalogEntry, error)
}

type SupplierService struct {
	Repo       SupplierStore
	JWTManager *auth.JWTManager
}

func NewSupplierService(repo SupplierStore, jwtManager *auth.JWTManager) *SupplierService {
	return &SupplierService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

func (s *SupplierService) Create(ctx context.Context, req *models.CreateSupplierRequest) (*models.Supplier, error) {
	if fields := validation.ValidateSupplierInsert(req); len(fields) > 0 {
		return nil, validationErr(fields)
	}

	existing, _ := s.Repo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, badInputf("supplier with this email already exists")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	supplier := &models.Supplier{
		CompanyName:     req.CompanyName,
		ContactName:     req.ContactName,
		Email:           req.Email,
		Phone:           req.Phone,
		PasswordHash:    hashedPassword,
		DeliveryRegions: req.DeliveryRegions,
		Materials:       req.Materials,
		MaterialTypes:   req.MaterialTypes,
	}

	if err := s.Repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) Get(ctx context.Context, id int) (*models.Supplier, error) {
	supplier, err := s.Repo.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return supplier, err
}

func (s *SupplierService) List(ctx context.Context) ([]*models.Supplier, error) {
	return s.Repo.List(ctx)
}

// Update applies a partial update: only the fields present in the request
// are validated and written, absent fields keep their stored values.
func (s *SupplierService) Update(ctx context.Context, id int, req *models.CreateSupplierRequest) (*models.Supplier, error) {
	if fields := validation.ValidateSupplierUpdate(req); len(fields) > 0 {
		return nil, validationErr(fields)
	}

	supplier, err := s.Repo.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.CompanyName != "" {
		supplier.CompanyName = req.CompanyName
	}
	if req.ContactName != "" {
		supplier.ContactName = req.ContactName
	}
	if req.Email != "" {
		supplier.Email = req.Email
	}
	if req.Phone != "" {
		supplier.Phone = req.Phone
	}
	if req.Password != "" {
		hashedPassword, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		supplier.PasswordHash = hashedPassword
	}
	if req.DeliveryRegions != nil {
		supplier.DeliveryRegions = req.DeliveryRegions
	}
	if req.Materials != nil {
		supplier.Materials = req.Materials
	}
	if req.MaterialTypes != nil {
		supplier.MaterialTypes = req.MaterialTypes
	}

	if err := s.Repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) Delete(ctx context.Context, id int) error {
	err := s.Repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Login authenticates a supplier against the supplier table and issues a
// token with the supplier role. Supplier tokens never grant staff access.
func (s *SupplierService) Login(ctx context.Context, req *models.SupplierLoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	supplier, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !auth.VerifyPassword(supplier.PasswordHash, req.Password) {
		return nil, errors.New("invalid email or password")
	}

	token, err := s.JWTManager.GenerateSupplierToken(supplier)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token}, nil
}

// Catalog returns the flattened material-price rows, optionally for one
// supplier (0 = all).
func (s *SupplierService) Catalog(ctx context.Context, supplierID int) ([]*models.CatalogEntry, error) {
	return s.Repo.Catalog(ctx, supplierID)
}
