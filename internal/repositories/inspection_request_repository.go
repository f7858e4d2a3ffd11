package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"desynflow-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InspectionRequestRepository struct {
	DB *pgxpool.Pool
}

func NewInspectionRequestRepository(db *pgxpool.Pool) *InspectionRequestRepository {
	return &InspectionRequestRepository{DB: db}
}

func (r *InspectionRequestRepository) Create(ctx context.Context, req *models.InspectionRequest) error {
	query := `
		INSERT INTO inspection_requests (client_id, property_address, property_city, property_type, requested_date, amount, payment_due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, version, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		req.ClientID,
		req.PropertyAddress,
		req.PropertyCity,
		req.PropertyType,
		req.RequestedDate,
		req.Amount,
		req.PaymentDueDate,
	).Scan(&req.ID, &req.Status, &req.Version, &req.CreatedAt, &req.UpdatedAt)
}

const requestSelect = `
	SELECT ir.id, ir.client_id, ir.property_address, ir.property_city, ir.property_type,
	       ir.requested_date, ir.amount, ir.payment_due_date, ir.inspector_id,
	       COALESCE(insp.name, ''), COALESCE(c.name, ''),
	       ir.status, ir.version, ir.created_at, ir.updated_at
	FROM inspection_requests ir
	LEFT JOIN users insp ON ir.inspector_id = insp.id
	LEFT JOIN users c ON ir.client_id = c.id
`

func (r *InspectionRequestRepository) scan(row interface{ Scan(...any) error }) (*models.InspectionRequest, error) {
	req := &models.InspectionRequest{}
	err := row.Scan(
		&req.ID,
		&req.ClientID,
		&req.PropertyAddress,
		&req.PropertyCity,
		&req.PropertyType,
		&req.RequestedDate,
		&req.Amount,
		&req.PaymentDueDate,
		&req.InspectorID,
		&req.InspectorName,
		&req.ClientName,
		&req.Status,
		&req.Version,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *InspectionRequestRepository) Get(ctx context.Context, id int) (*models.InspectionRequest, error) {
	return r.scan(r.DB.QueryRow(ctx, requestSelect+` WHERE ir.id = $1`, id))
}

func (r *InspectionRequestRepository) list(ctx context.Context, query string, args ...any) ([]*models.InspectionRequest, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.InspectionRequest
	for rows.Next() {
		req, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (r *InspectionRequestRepository) ListByClient(ctx context.Context, clientID int) ([]*models.InspectionRequest, error) {
	return r.list(ctx, requestSelect+` WHERE ir.client_id = $1 ORDER BY ir.created_at DESC`, clientID)
}

func (r *InspectionRequestRepository) ListByStatus(ctx context.Context, status string) ([]*models.InspectionRequest, error) {
	return r.list(ctx, requestSelect+` WHERE ir.status = $1 ORDER BY ir.created_at`, status)
}

func (r *InspectionRequestRepository) ListByInspector(ctx context.Context, inspectorID int) ([]*models.InspectionRequest, error) {
	return r.list(ctx, requestSelect+` WHERE ir.inspector_id = $1 ORDER BY ir.requested_date`, inspectorID)
}

func (r *InspectionRequestRepository) List(ctx context.Context) ([]*models.InspectionRequest, error) {
	return r.list(ctx, requestSelect+` ORDER BY ir.created_at DESC`)
}

// Assign sets the inspector on a pending request. The status and version
// guards make concurrent double-assignment lose instead of silently winning.
func (r *InspectionRequestRepository) Assign(ctx context.Context, requestID, inspectorID, version int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE inspection_requests
		SET inspector_id = $2, status = 'assigned', version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status = 'pending' AND version = $3
	`, requestID, inspectorID, version)
	if err != nil {
		return fmt.Errorf("failed to assign inspector: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleVersion
	}
	return nil
}

// Transition moves a request from one lifecycle status to the next.
func (r *InspectionRequestRepository) Transition(ctx context.Context, requestID int, from, to string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE inspection_requests
		SET status = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, requestID, from, to)
	if err != nil {
		return fmt.Errorf("failed to transition request %d: %w", requestID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleVersion
	}
	return nil
}

func (r *InspectionRequestRepository) SetPaymentTerms(ctx context.Context, requestID int, amount float64, dueDate time.Time) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE inspection_requests
		SET amount = $2, payment_due_date = $3, updated_at = NOW()
		WHERE id = $1
	`, requestID, amount, dueDate)
	return err
}
