package repositories

import (
	"context"
	"errors"
	"fmt"

	"desynflow-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InspectionFormRepository struct {
	DB *pgxpool.Pool
}

func NewInspectionFormRepository(db *pgxpool.Pool) *InspectionFormRepository {
	return &InspectionFormRepository{DB: db}
}

func (r *InspectionFormRepository) Create(ctx context.Context, form *models.InspectionForm) error {
	query := `
		INSERT INTO inspection_forms (request_id, inspector_id, form_data, status, submitted_at)
		VALUES ($1, $2, $3, 'submitted', NOW())
		RETURNING id, status, submitted_at, created_at
	`
	return r.DB.QueryRow(ctx, query,
		form.RequestID, form.InspectorID, form.FormData,
	).Scan(&form.ID, &form.Status, &form.SubmittedAt, &form.CreatedAt)
}

const formColumns = `id, request_id, inspector_id, form_data, status,
	submitted_at, reviewed_at, COALESCE(reviewer_comments, ''), created_at`

func (r *InspectionFormRepository) scan(row interface{ Scan(...any) error }) (*models.InspectionForm, error) {
	form := &models.InspectionForm{}
	err := row.Scan(
		&form.ID,
		&form.RequestID,
		&form.InspectorID,
		&form.FormData,
		&form.Status,
		&form.SubmittedAt,
		&form.ReviewedAt,
		&form.ReviewerComments,
		&form.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return form, nil
}

func (r *InspectionFormRepository) Get(ctx context.Context, id int) (*models.InspectionForm, error) {
	return r.scan(r.DB.QueryRow(ctx,
		`SELECT `+formColumns+` FROM inspection_forms WHERE id = $1`, id))
}

func (r *InspectionFormRepository) GetByRequest(ctx context.Context, requestID int) (*models.InspectionForm, error) {
	return r.scan(r.DB.QueryRow(ctx,
		`SELECT `+formColumns+` FROM inspection_forms WHERE request_id = $1 ORDER BY created_at DESC LIMIT 1`,
		requestID))
}

func (r *InspectionFormRepository) ListByStatus(ctx context.Context, status string) ([]*models.InspectionForm, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+formColumns+` FROM inspection_forms WHERE status = $1 ORDER BY submitted_at`,
		status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []*models.InspectionForm
	for rows.Next() {
		form, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// Review transitions submitted → approved|rejected.
func (r *InspectionFormRepository) Review(ctx context.Context, id int, status, comments string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE inspection_forms
		SET status = $2, reviewer_comments = $3, reviewed_at = NOW()
		WHERE id = $1 AND status = 'submitted'
	`, id, status, comments)
	if err != nil {
		return fmt.Errorf("failed to review form %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleVersion
	}
	return nil
}
