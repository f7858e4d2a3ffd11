package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"desynflow-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SupplierRepository struct {
	DB *pgxpool.Pool
}

func NewSupplierRepository(db *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{DB: db}
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	materials, err := json.Marshal(supplier.Materials)
	if err != nil {
		return fmt.Errorf("failed to encode materials: %w", err)
	}

	query := `
		INSERT INTO suppliers (company_name, contact_name, email, phone, password_hash, delivery_regions, materials, material_types)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		supplier.CompanyName,
		supplier.ContactName,
		supplier.Email,
		supplier.Phone,
		supplier.PasswordHash,
		supplier.DeliveryRegions,
		materials,
		supplier.MaterialTypes,
	).Scan(&supplier.ID, &supplier.CreatedAt, &supplier.UpdatedAt)
}

func (r *SupplierRepository) scanSupplier(row interface{ Scan(...any) error }) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	var materials []byte
	err := row.Scan(
		&supplier.ID,
		&supplier.CompanyName,
		&supplier.ContactName,
		&supplier.Email,
		&supplier.Phone,
		&supplier.PasswordHash,
		&supplier.DeliveryRegions,
		&materials,
		&supplier.MaterialTypes,
		&supplier.CreatedAt,
		&supplier.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(materials, &supplier.Materials); err != nil {
		return nil, fmt.Errorf("failed to decode materials for supplier %d: %w", supplier.ID, err)
	}
	return supplier, nil
}

const supplierColumns = `id, company_name, contact_name, email, phone, password_hash,
	delivery_regions, materials, material_types, created_at, updated_at`

func (r *SupplierRepository) Get(ctx context.Context, id int) (*models.Supplier, error) {
	return r.scanSupplier(r.DB.QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
}

func (r *SupplierRepository) GetByEmail(ctx context.Context, email string) (*models.Supplier, error) {
	return r.scanSupplier(r.DB.QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE email = $1`, email))
}

func (r *SupplierRepository) List(ctx context.Context) ([]*models.Supplier, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY company_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		supplier, err := r.scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, nil
}

func (r *SupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	materials, err := json.Marshal(supplier.Materials)
	if err != nil {
		return fmt.Errorf("failed to encode materials: %w", err)
	}

	query := `
		UPDATE suppliers
		SET company_name = $2, contact_name = $3, email = $4, phone = $5,
		    password_hash = $6, delivery_regions = $7, materials = $8,
		    material_types = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.DB.QueryRow(ctx, query,
		supplier.ID,
		supplier.CompanyName,
		supplier.ContactName,
		supplier.Email,
		supplier.Phone,
		supplier.PasswordHash,
		supplier.DeliveryRegions,
		materials,
		supplier.MaterialTypes,
	).Scan(&supplier.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *SupplierRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Catalog flattens supplier material lists into pricing rows, optionally
// filtered by supplier.
func (r *SupplierRepository) Catalog(ctx context.Context, supplierID int) ([]*models.CatalogEntry, error) {
	query := `
		SELECT s.id, s.company_name, m->>'name', (m->>'price_per_unit')::NUMERIC
		FROM suppliers s, jsonb_array_elements(s.materials) m
		WHERE ($1 = 0 OR s.id = $1)
		ORDER BY s.company_name, m->>'name'
	`
	rows, err := r.DB.Query(ctx, query, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.CatalogEntry
	for rows.Next() {
		entry := &models.CatalogEntry{}
		if err := rows.Scan(&entry.SupplierID, &entry.CompanyName, &entry.MaterialName, &entry.PricePerUnit); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
