package repositories

import (
	"context"

	"desynflow-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	DB *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, type, title, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(ctx, query,
		n.RecipientID, n.Type, n.Title, n.Message,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int, unreadOnly bool) ([]*models.Notification, error) {
	query := `
		SELECT id, recipient_id, type, title, COALESCE(message, ''), is_read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND ($2 = FALSE OR is_read = FALSE)
		ORDER BY created_at DESC
		LIMIT 100
	`
	rows, err := r.DB.Query(ctx, query, recipientID, unreadOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`,
		id, recipientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1`, recipientID)
	return err
}
