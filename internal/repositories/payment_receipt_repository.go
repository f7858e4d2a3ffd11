package repositories

import (
	"context"
	"errors"
	"fmt"

	"desynflow-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentReceiptRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentReceiptRepository(db *pgxpool.Pool) *PaymentReceiptRepository {
	return &PaymentReceiptRepository{DB: db}
}

func (r *PaymentReceiptRepository) Create(ctx context.Context, receipt *models.PaymentReceipt) error {
	query := `
		INSERT INTO payment_receipts (request_id, client_id, amount, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, version, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		receipt.RequestID,
		receipt.ClientID,
		receipt.Amount,
		receipt.DueDate,
	).Scan(&receipt.ID, &receipt.Status, &receipt.Version, &receipt.CreatedAt, &receipt.UpdatedAt)
}

const receiptColumns = `id, request_id, client_id, amount, due_date,
	COALESCE(file_path, ''), status, COALESCE(finance_remarks, ''),
	COALESCE(rejection_reason, ''), token_used_at, version, created_at, updated_at`

func (r *PaymentReceiptRepository) scan(row interface{ Scan(...any) error }) (*models.PaymentReceipt, error) {
	receipt := &models.PaymentReceipt{}
	err := row.Scan(
		&receipt.ID,
		&receipt.RequestID,
		&receipt.ClientID,
		&receipt.Amount,
		&receipt.DueDate,
		&receipt.FilePath,
		&receipt.Status,
		&receipt.FinanceRemarks,
		&receipt.RejectionReason,
		&receipt.TokenUsedAt,
		&receipt.Version,
		&receipt.CreatedAt,
		&receipt.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (r *PaymentReceiptRepository) Get(ctx context.Context, id int) (*models.PaymentReceipt, error) {
	return r.scan(r.DB.QueryRow(ctx,
		`SELECT `+receiptColumns+` FROM payment_receipts WHERE id = $1`, id))
}

func (r *PaymentReceiptRepository) GetByRequest(ctx context.Context, requestID int) (*models.PaymentReceipt, error) {
	return r.scan(r.DB.QueryRow(ctx,
		`SELECT `+receiptColumns+` FROM payment_receipts WHERE request_id = $1 ORDER BY created_at DESC LIMIT 1`,
		requestID))
}

func (r *PaymentReceiptRepository) List(ctx context.Context) ([]*models.PaymentReceipt, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+receiptColumns+` FROM payment_receipts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []*models.PaymentReceipt
	for rows.Next() {
		receipt, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

func (r *PaymentReceiptRepository) ListByClient(ctx context.Context, clientID int) ([]*models.PaymentReceipt, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+receiptColumns+` FROM payment_receipts WHERE client_id = $1 ORDER BY created_at DESC`,
		clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []*models.PaymentReceipt
	for rows.Next() {
		receipt, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

// AttachFile transitions link_generated → uploaded, recording the file path
// and consuming the upload token. A second upload finds zero matching rows.
func (r *PaymentReceiptRepository) AttachFile(ctx context.Context, id int, filePath string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE payment_receipts
		SET file_path = $2, status = 'uploaded', token_used_at = NOW(),
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status = 'link_generated'
	`, id, filePath)
	if err != nil {
		return fmt.Errorf("failed to attach receipt file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleVersion
	}
	return nil
}

// Resolve transitions uploaded → verified|rejected with a version guard, so
// two finance users resolving the same receipt cannot both win.
func (r *PaymentReceiptRepository) Resolve(ctx context.Context, id int, status, remarks, rejectionReason string, version int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE payment_receipts
		SET status = $2, finance_remarks = $3, rejection_reason = $4,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status = 'uploaded' AND version = $5
	`, id, status, remarks, rejectionReason, version)
	if err != nil {
		return fmt.Errorf("failed to resolve receipt %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleVersion
	}
	return nil
}

// MarkVerifiedOnline is the webhook path: an online payment verifies a
// receipt regardless of whether a file was uploaded first.
func (r *PaymentReceiptRepository) MarkVerifiedOnline(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE payment_receipts
		SET status = 'verified', finance_remarks = 'paid online',
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status IN ('link_generated', 'uploaded')
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark receipt %d paid online: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleVersion
	}
	return nil
}

func (r *PaymentReceiptRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM payment_receipts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
