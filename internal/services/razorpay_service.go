package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"desynflow-backend/internal/models"
	"desynflow-backend/internal/repositories"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayService is the optional online path for inspection fees: instead
// of uploading a bank receipt, the client pays through the gateway and the
// webhook verifies the receipt automatically.
type RazorpayService struct {
	Transactions  *repositories.OnlineTransactionRepository
	Receipts      ReceiptStore
	Requests      RequestStore
	Notifications NotificationSink

	keyID         string
	keySecret     string
	webhookSecret string
}

func NewRazorpayService(keyID, keySecret, webhookSecret string, transactions *repositories.OnlineTransactionRepository, receipts ReceiptStore, requests RequestStore, notifications NotificationSink) *RazorpayService {
	return &RazorpayService{
		Transactions:  transactions,
		Receipts:      receipts,
		Requests:      requests,
		Notifications: notifications,
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// IsEnabled reports whether gateway credentials are configured.
func (s *RazorpayService) IsEnabled() bool {
	return s.keyID != "" && s.keySecret != ""
}

// CreateOrder creates a gateway order for a pending receipt. The order
// amount comes from the receipt, never the client.
func (s *RazorpayService) CreateOrder(ctx context.Context, receiptID, clientID int) (*models.CreateOrderResponse, error) {
	if !s.IsEnabled() {
		return nil, fmt.Errorf("%w: online payments are currently disabled", ErrInvalidState)
	}

	receipt, err := s.Receipts.Get(ctx, receiptID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if receipt.ClientID != clientID {
		return nil, ErrForbidden
	}
	if receipt.Status != models.ReceiptStatusLinkGenerated && receipt.Status != models.ReceiptStatusUploaded {
		return nil, fmt.Errorf("%w: receipt is %s", ErrInvalidState, receipt.Status)
	}

	client := razorpay.NewClient(s.keyID, s.keySecret)

	amountPaise := int(receipt.Amount * 100)
	orderData := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("rcpt_%d", receipt.ID),
		"notes": map[string]interface{}{
			"receipt_id": receipt.ID,
			"request_id": receipt.RequestID,
		},
	}

	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}
	orderID := order["id"].(string)

	tx := &models.OnlineTransaction{
		ReceiptID:       receipt.ID,
		ProviderOrderID: orderID,
		Amount:          receipt.Amount,
		Status:          models.TransactionCreated,
	}
	if err := s.Transactions.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	return &models.CreateOrderResponse{
		OrderID:  orderID,
		Amount:   receipt.Amount,
		Currency: "INR",
		KeyID:    s.keyID,
	}, nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// webhook secret.
func (s *RazorpayService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		return false
	}
	h := hmac.New(sha256.New, []byte(s.webhookSecret))
	h.Write(body)
	expectedSignature := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook processes payment.captured and payment.failed events. A
// captured payment verifies the receipt and advances the request to paid.
func (s *RazorpayService) HandleWebhook(ctx context.Context, body []byte) error {
	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	orderID := event.Payload.Payment.Entity.OrderID
	if orderID == "" {
		log.Printf("[Razorpay] Ignoring %s event with no order id", event.Event)
		return nil
	}

	tx, err := s.Transactions.GetByOrderID(ctx, orderID)
	if errors.Is(err, repositories.ErrNotFound) {
		log.Printf("[Razorpay] Unknown order %s", orderID)
		return nil
	}
	if err != nil {
		return err
	}

	switch event.Event {
	case "payment.captured":
		if err := s.Transactions.MarkPaid(ctx, tx.ID, event.Payload.Payment.Entity.ID); err != nil {
			// Duplicate webhook delivery lands here; the first one won.
			log.Printf("[Razorpay] Order %s already settled: %v", orderID, err)
			return nil
		}

		receipt, err := s.Receipts.Get(ctx, tx.ReceiptID)
		if err != nil {
			return err
		}
		if err := s.Receipts.MarkVerifiedOnline(ctx, tx.ReceiptID); err != nil {
			log.Printf("[Razorpay] Failed to verify receipt %d online: %v", tx.ReceiptID, err)
			return nil
		}
		if err := s.Requests.Transition(ctx, receipt.RequestID, models.RequestStatusInspected, models.RequestStatusPaid); err != nil {
			log.Printf("[Razorpay] Request %d transition failed: %v", receipt.RequestID, err)
		}

		notification := &models.Notification{
			RecipientID: receipt.ClientID,
			Type:        models.NotificationPayment,
			Title:       "Payment received",
			Message:     fmt.Sprintf("Your online payment for inspection #%d was received.", receipt.RequestID),
		}
		if err := s.Notifications.Create(ctx, notification); err != nil {
			log.Printf("[Razorpay] Failed to notify client %d: %v", receipt.ClientID, err)
		}

	case "payment.failed":
		if err := s.Transactions.MarkFailed(ctx, tx.ID); err != nil {
			log.Printf("[Razorpay] Failed to mark order %s failed: %v", orderID, err)
		}

	default:
		log.Printf("[Razorpay] Ignoring event %s", event.Event)
	}

	return nil
}
