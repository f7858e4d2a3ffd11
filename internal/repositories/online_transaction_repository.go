package repositories

import (
	"context"
	"errors"

	"desynflow-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OnlineTransactionRepository struct {
	DB *pgxpool.Pool
}

func NewOnlineTransactionRepository(db *pgxpool.Pool) *OnlineTransactionRepository {
	return &OnlineTransactionRepository{DB: db}
}

func (r *OnlineTransactionRepository) Create(ctx context.Context, t *models.OnlineTransaction) error {
	query := `
		INSERT INTO online_transactions (receipt_id, provider_order_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		t.ReceiptID, t.ProviderOrderID, t.Amount,
	).Scan(&t.ID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

func (r *OnlineTransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*models.OnlineTransaction, error) {
	query := `
		SELECT id, receipt_id, provider_order_id, COALESCE(provider_payment_id, ''), amount, status, created_at, updated_at
		FROM online_transactions
		WHERE provider_order_id = $1
	`
	t := &models.OnlineTransaction{}
	err := r.DB.QueryRow(ctx, query, orderID).Scan(
		&t.ID, &t.ReceiptID, &t.ProviderOrderID, &t.ProviderPaymentID,
		&t.Amount, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *OnlineTransactionRepository) MarkPaid(ctx context.Context, id int, paymentID string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE online_transactions
		SET status = 'paid', provider_payment_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'created'
	`, id, paymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleVersion
	}
	return nil
}

func (r *OnlineTransactionRepository) MarkFailed(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE online_transactions SET status = 'failed', updated_at = NOW() WHERE id = $1
	`, id)
	return err
}
