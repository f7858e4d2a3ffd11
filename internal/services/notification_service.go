package services

import (
	"context"
	"log"

	"desynflow-backend/internal/models"
	"desynflow-backend/internal/notify"
	"desynflow-backend/internal/repositories"
)

type NotificationService struct {
	Repo     *repositories.NotificationRepository
	Users    *repositories.UserRepository
	Provider notify.Provider
}

func NewNotificationService(repo *repositories.NotificationRepository, users *repositories.UserRepository, provider notify.Provider) *NotificationService {
	return &NotificationService{
		Repo:     repo,
		Users:    users,
		Provider: provider,
	}
}

// Create stores the in-app notification and pushes it to the external
// channel best-effort.
func (s *NotificationService) Create(ctx context.Context, n *models.Notification) error {
	if err := s.Repo.Create(ctx, n); err != nil {
		return err
	}

	user, err := s.Users.Get(ctx, n.RecipientID)
	if err != nil {
		log.Printf("[Notify] Recipient %d not found for external delivery: %v", n.RecipientID, err)
		return nil
	}
	if err := s.Provider.Send(ctx, user.Email, n.Title, n.Message); err != nil {
		log.Printf("[Notify] External delivery to %d failed: %v", n.RecipientID, err)
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, recipientID int, unreadOnly bool) ([]*models.Notification, error) {
	return s.Repo.ListByRecipient(ctx, recipientID, unreadOnly)
}

// MarkRead flips one notification; scoped to the recipient so users cannot
// mark each other's.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID int) error {
	return s.Repo.MarkRead(ctx, id, recipientID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID int) error {
	return s.Repo.MarkAllRead(ctx, recipientID)
}
