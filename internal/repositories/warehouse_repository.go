package repositories

import (
	"context"
	"errors"

	"desynflow-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DisposalMaterialRepository struct {
	DB *pgxpool.Pool
}

func NewDisposalMaterialRepository(db *pgxpool.Pool) *DisposalMaterialRepository {
	return &DisposalMaterialRepository{DB: db}
}

func (r *DisposalMaterialRepository) Create(ctx context.Context, d *models.DisposalMaterial) error {
	query := `
		INSERT INTO disposal_materials (material_name, category, quantity, unit, warehouse_location, disposal_reason, scheduled_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		d.MaterialName, d.Category, d.Quantity, d.Unit,
		d.WarehouseLocation, d.DisposalReason, d.ScheduledDate,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

const disposalColumns = `id, material_name, COALESCE(category, ''), quantity, COALESCE(unit, ''),
	warehouse_location, COALESCE(disposal_reason, ''), scheduled_date, created_at, updated_at`

func (r *DisposalMaterialRepository) scan(row interface{ Scan(...any) error }) (*models.DisposalMaterial, error) {
	d := &models.DisposalMaterial{}
	err := row.Scan(
		&d.ID, &d.MaterialName, &d.Category, &d.Quantity, &d.Unit,
		&d.WarehouseLocation, &d.DisposalReason, &d.ScheduledDate,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DisposalMaterialRepository) Get(ctx context.Context, id int) (*models.DisposalMaterial, error) {
	return r.scan(r.DB.QueryRow(ctx,
		`SELECT `+disposalColumns+` FROM disposal_materials WHERE id = $1`, id))
}

func (r *DisposalMaterialRepository) List(ctx context.Context) ([]*models.DisposalMaterial, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+disposalColumns+` FROM disposal_materials ORDER BY scheduled_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []*models.DisposalMaterial
	for rows.Next() {
		d, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, d)
	}
	return materials, nil
}

func (r *DisposalMaterialRepository) Update(ctx context.Context, d *models.DisposalMaterial) error {
	query := `
		UPDATE disposal_materials
		SET material_name = $2, category = $3, quantity = $4, unit = $5,
		    warehouse_location = $6, disposal_reason = $7, scheduled_date = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		d.ID, d.MaterialName, d.Category, d.Quantity, d.Unit,
		d.WarehouseLocation, d.DisposalReason, d.ScheduledDate,
	).Scan(&d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *DisposalMaterialRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM disposal_materials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type TransferRequestRepository struct {
	DB *pgxpool.Pool
}

func NewTransferRequestRepository(db *pgxpool.Pool) *TransferRequestRepository {
	return &TransferRequestRepository{DB: db}
}

func (r *TransferRequestRepository) Create(ctx context.Context, t *models.TransferRequest) error {
	query := `
		INSERT INTO transfer_requests (material_id, quantity, from_location, to_location, required_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		t.MaterialID, t.Quantity, t.FromLocation, t.ToLocation, t.RequiredBy, t.Notes,
	).Scan(&t.ID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

const transferColumns = `id, material_id, quantity, from_location, to_location,
	required_by, status, COALESCE(notes, ''), created_at, updated_at`

func (r *TransferRequestRepository) scan(row interface{ Scan(...any) error }) (*models.TransferRequest, error) {
	t := &models.TransferRequest{}
	err := row.Scan(
		&t.ID, &t.MaterialID, &t.Quantity, &t.FromLocation, &t.ToLocation,
		&t.RequiredBy, &t.Status, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransferRequestRepository) Get(ctx context.Context, id int) (*models.TransferRequest, error) {
	return r.scan(r.DB.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfer_requests WHERE id = $1`, id))
}

func (r *TransferRequestRepository) List(ctx context.Context) ([]*models.TransferRequest, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+transferColumns+` FROM transfer_requests ORDER BY required_by`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*models.TransferRequest
	for rows.Next() {
		t, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, nil
}

func (r *TransferRequestRepository) Update(ctx context.Context, t *models.TransferRequest) error {
	query := `
		UPDATE transfer_requests
		SET material_id = $2, quantity = $3, from_location = $4, to_location = $5,
		    required_by = $6, status = $7, notes = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		t.ID, t.MaterialID, t.Quantity, t.FromLocation, t.ToLocation,
		t.RequiredBy, t.Status, t.Notes,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *TransferRequestRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM transfer_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
