package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"

	"desynflow-backend/internal/auth"
	"desynflow-backend/internal/metrics"
	"desynflow-backend/internal/models"
	"desynflow-backend/internal/repositories"
	"desynflow-backend/internal/storage"
	"desynflow-backend/internal/timeutil"
	"desynflow-backend/internal/upload"
)

// ReceiptStore is the slice of the payment receipt repository this service
// needs.
type ReceiptStore interface {
	Create(ctx context.Context, receipt *models.PaymentReceipt) error
	Get(ctx context.Context, id int) (*models.PaymentReceipt, error)
	GetByRequest(ctx context.Context, requestID int) (*models.PaymentReceipt, error)
	List(ctx context.Context) ([]*models.PaymentReceipt, error)
	ListByClient(ctx context.Context, clientID int) ([]*models.PaymentReceipt, error)
	AttachFile(ctx context.Context, id int, filePath string) error
	Resolve(ctx context.Context, id int, status, remarks, rejectionReason string, version int) error
	MarkVerifiedOnline(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

type PaymentReceiptService struct {
	Receipts      ReceiptStore
	Requests      RequestStore
	JWTManager    *auth.JWTManager
	Uploads       *upload.Store
	Mirror        *storage.Mirror
	Notifications NotificationSink
	BaseURL       string
}

func NewPaymentReceiptService(receipts ReceiptStore, requests RequestStore, jwtManager *auth.JWTManager, uploads *upload.Store, mirror *storage.Mirror, notifications NotificationSink, baseURL string) *PaymentReceiptService {
	return &PaymentReceiptService{
		Receipts:      receipts,
		Requests:      requests,
		JWTManager:    jwtManager,
		Uploads:       uploads,
		Mirror:        mirror,
		Notifications: notifications,
		BaseURL:       baseURL,
	}
}

// GenerateLink records the payment terms on an inspected request, creates
// the receipt row, and mints an upload token that expires at end of the due
// date. The token binds to exactly one receipt.
func (s *PaymentReceiptService) GenerateLink(ctx context.Context, req *models.GeneratePaymentLinkRequest) (*models.GeneratePaymentLinkResponse, error) {
	if req.Amount <= 0 {
		return nil, badInputf("amount must be positive")
	}
	dueDate, err := timeutil.ParseDate(req.DueDate)
	if err != nil {
		return nil, badInputf("due_date must be YYYY-MM-DD")
	}
	if !timeutil.IsStrictlyFuture(dueDate) {
		return nil, badInputf("due_date must be a future date")
	}

	request, err := s.Requests.Get(ctx, req.RequestID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestStatusInspected {
		return nil, fmt.Errorf("%w: payment links are generated for inspected requests, request is %s", ErrInvalidState, request.Status)
	}

	if existing, _ := s.Receipts.GetByRequest(ctx, req.RequestID); existing != nil {
		return nil, fmt.Errorf("%w: a payment link already exists for this request", ErrInvalidState)
	}

	if err := s.Requests.SetPaymentTerms(ctx, req.RequestID, req.Amount, dueDate); err != nil {
		return nil, err
	}

	receipt := &models.PaymentReceipt{
		RequestID: req.RequestID,
		ClientID:  request.ClientID,
		Amount:    req.Amount,
		DueDate:   dueDate,
		Status:    models.ReceiptStatusLinkGenerated,
	}
	if err := s.Receipts.Create(ctx, receipt); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateUploadToken(receipt.ID, dueDate)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		RecipientID: request.ClientID,
		Type:        models.NotificationPayment,
		Title:       "Payment requested",
		Message:     fmt.Sprintf("Payment of %.2f for inspection #%d is due by %s.", req.Amount, req.RequestID, req.DueDate),
	}
	if err := s.Notifications.Create(ctx, notification); err != nil {
		log.Printf("[Payment] Failed to notify client %d: %v", request.ClientID, err)
	}

	return &models.GeneratePaymentLinkResponse{
		Receipt:     receipt,
		UploadToken: token,
		UploadURL:   fmt.Sprintf("%s/api/payment-receipts/upload/%s", s.BaseURL, token),
	}, nil
}

// Upload consumes a one-time upload token and attaches the proof file. The
// token dies with the first successful upload; later attempts hit the
// status guard and get a conflict.
func (s *PaymentReceiptService) Upload(ctx context.Context, token string, file multipart.File, header *multipart.FileHeader) (*models.PaymentReceipt, error) {
	claims, err := s.JWTManager.ValidatePurposeToken(token, auth.PurposeReceiptUpload)
	if err != nil {
		return nil, badInputf("invalid or expired upload link")
	}

	receipt, err := s.Receipts.Get(ctx, claims.SubjectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if receipt.Status != models.ReceiptStatusLinkGenerated {
		metrics.UploadsTotal.WithLabelValues("receipt", "reused_link").Inc()
		return nil, fmt.Errorf("%w: this upload link was already used", ErrInvalidState)
	}

	filename, err := s.Uploads.Save(file, header)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("receipt", "rejected").Inc()
		return nil, err
	}

	err = s.Receipts.AttachFile(ctx, receipt.ID, filename)
	if errors.Is(err, repositories.ErrStaleVersion) {
		metrics.StateConflictsTotal.WithLabelValues("payment_receipt").Inc()
		return nil, fmt.Errorf("%w: this upload link was already used", ErrInvalidState)
	}
	if err != nil {
		return nil, err
	}
	metrics.UploadsTotal.WithLabelValues("receipt", "accepted").Inc()

	// Best-effort copy to the mirror bucket.
	if path, perr := s.Uploads.Path(filename); perr == nil {
		go s.Mirror.Put(context.Background(), "receipts/"+filename, path, mimeForExt(filename))
	}

	return s.Receipts.Get(ctx, receipt.ID)
}

// Verify resolves an uploaded receipt. Verification also advances the
// inspection request to paid; rejection leaves the receipt rejected with a
// reason for the client.
func (s *PaymentReceiptService) Verify(ctx context.Context, id int, req *models.VerifyReceiptRequest) (*models.PaymentReceipt, error) {
	var status string
	switch req.Action {
	case "verify":
		status = models.ReceiptStatusVerified
	case "reject":
		status = models.ReceiptStatusRejected
		if req.RejectionReason == "" {
			return nil, badInputf("rejection_reason is required when rejecting")
		}
	default:
		return nil, badInputf("action must be verify or reject")
	}

	receipt, err := s.Receipts.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if receipt.Status != models.ReceiptStatusUploaded {
		return nil, fmt.Errorf("%w: receipt is %s", ErrInvalidState, receipt.Status)
	}

	err = s.Receipts.Resolve(ctx, id, status, req.FinanceRemarks, req.RejectionReason, req.Version)
	if errors.Is(err, repositories.ErrStaleVersion) {
		metrics.StateConflictsTotal.WithLabelValues("payment_receipt").Inc()
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}

	if status == models.ReceiptStatusVerified {
		if err := s.Requests.Transition(ctx, receipt.RequestID, models.RequestStatusInspected, models.RequestStatusPaid); err != nil {
			log.Printf("[Payment] Receipt %d verified but request %d transition failed: %v", id, receipt.RequestID, err)
		}
	}

	title := "Payment verified"
	message := fmt.Sprintf("Your payment for inspection #%d has been verified.", receipt.RequestID)
	if status == models.ReceiptStatusRejected {
		title = "Payment rejected"
		message = fmt.Sprintf("Your payment proof for inspection #%d was rejected: %s", receipt.RequestID, req.RejectionReason)
	}
	notification := &models.Notification{
		RecipientID: receipt.ClientID,
		Type:        models.NotificationPayment,
		Title:       title,
		Message:     message,
	}
	if err := s.Notifications.Create(ctx, notification); err != nil {
		log.Printf("[Payment] Failed to notify client %d: %v", receipt.ClientID, err)
	}

	return s.Receipts.Get(ctx, id)
}

func (s *PaymentReceiptService) Get(ctx context.Context, id int) (*models.PaymentReceipt, error) {
	receipt, err := s.Receipts.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return receipt, err
}

func (s *PaymentReceiptService) List(ctx context.Context) ([]*models.PaymentReceipt, error) {
	return s.Receipts.List(ctx)
}

func (s *PaymentReceiptService) ListForClient(ctx context.Context, clientID int) ([]*models.PaymentReceipt, error) {
	return s.Receipts.ListByClient(ctx, clientID)
}

// Delete removes a rejected receipt so finance can re-issue the link.
func (s *PaymentReceiptService) Delete(ctx context.Context, id int) error {
	receipt, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if receipt.Status != models.ReceiptStatusRejected {
		return fmt.Errorf("%w: only rejected receipts can be deleted", ErrInvalidState)
	}
	return s.Receipts.Delete(ctx, id)
}

func mimeForExt(filename string) string {
	switch filepath.Ext(filename) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}
