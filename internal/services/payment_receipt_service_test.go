package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"desynflow-backend/internal/auth"
	"desynflow-backend/internal/config"
	"desynflow-backend/internal/models"
	"desynflow-backend/internal/upload"
)

func paymentTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "payment-test-secret"
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "desynflow-test"
	return cfg
}

func newPaymentService(t *testing.T, receipts *fakeReceipts, requests *fakeRequests) (*PaymentReceiptService, *fakeNotifications) {
	t.Helper()
	notifications := &fakeNotifications{}
	jwtManager := auth.NewJWTManager(paymentTestConfig())
	uploads := upload.ReceiptStore(t.TempDir(), 10)
	svc := NewPaymentReceiptService(receipts, requests, jwtManager, uploads, nil, notifications, "http://localhost:8080")
	return svc, notifications
}

func inspectedRequest(id, clientID int) *models.InspectionRequest {
	return &models.InspectionRequest{
		ID:              id,
		ClientID:        clientID,
		PropertyAddress: "12 Oak Lane",
		Status:          models.RequestStatusInspected,
		Version:         2,
	}
}

func receiptUpload(t *testing.T) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="proof.pdf"`}
	h["Content-Type"] = []string{"application/pdf"}
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	part.Write([]byte("%PDF-1.4 proof"))
	w.Close()

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		t.Fatalf("FormFile: %v", err)
	}
	return file, header
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestGenerateLinkHappyPath(t *testing.T) {
	requests := newFakeRequests(inspectedRequest(1, 7))
	receipts := newFakeReceipts()
	svc, notifications := newPaymentService(t, receipts, requests)

	resp, err := svc.GenerateLink(context.Background(), &models.GeneratePaymentLinkRequest{
		RequestID: 1,
		Amount:    1500,
		DueDate:   futureDate(5),
	})
	if err != nil {
		t.Fatalf("GenerateLink: %v", err)
	}

	if resp.Receipt.Status != models.ReceiptStatusLinkGenerated {
		t.Errorf("receipt status = %q, want link_generated", resp.Receipt.Status)
	}
	if resp.UploadToken == "" || resp.UploadURL == "" {
		t.Error("expected upload token and URL")
	}
	// The link must point at the public upload route the routers mount.
	wantURL := "/api/payment-receipts/upload/" + resp.UploadToken
	if !strings.HasSuffix(resp.UploadURL, wantURL) {
		t.Errorf("upload URL = %q, want suffix %q", resp.UploadURL, wantURL)
	}

	// Payment terms landed on the request.
	req, _ := requests.Get(context.Background(), 1)
	if req.Amount != 1500 || req.PaymentDueDate == nil {
		t.Errorf("payment terms not recorded: amount=%v due=%v", req.Amount, req.PaymentDueDate)
	}

	if len(notifications.created) != 1 || notifications.created[0].RecipientID != 7 {
		t.Errorf("expected payment notification to client 7, got %+v", notifications.created)
	}
}

func TestGenerateLinkRequiresInspectedState(t *testing.T) {
	req := inspectedRequest(1, 7)
	req.Status = models.RequestStatusPending
	svc, _ := newPaymentService(t, newFakeReceipts(), newFakeRequests(req))

	_, err := svc.GenerateLink(context.Background(), &models.GeneratePaymentLinkRequest{
		RequestID: 1,
		Amount:    1500,
		DueDate:   futureDate(5),
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestGenerateLinkRejectsPastDueDate(t *testing.T) {
	svc, _ := newPaymentService(t, newFakeReceipts(), newFakeRequests(inspectedRequest(1, 7)))

	_, err := svc.GenerateLink(context.Background(), &models.GeneratePaymentLinkRequest{
		RequestID: 1,
		Amount:    1500,
		DueDate:   time.Now().Format("2006-01-02"), // today is not strictly future
	})
	if err == nil {
		t.Fatal("expected error for non-future due date")
	}
}

func TestGenerateLinkOncePerRequest(t *testing.T) {
	svc, _ := newPaymentService(t, newFakeReceipts(), newFakeRequests(inspectedRequest(1, 7)))

	if _, err := svc.GenerateLink(context.Background(), &models.GeneratePaymentLinkRequest{
		RequestID: 1, Amount: 1500, DueDate: futureDate(5),
	}); err != nil {
		t.Fatalf("first link: %v", err)
	}

	_, err := svc.GenerateLink(context.Background(), &models.GeneratePaymentLinkRequest{
		RequestID: 1, Amount: 1500, DueDate: futureDate(5),
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for duplicate link, got %v", err)
	}
}

func TestUploadTokenIsSingleUse(t *testing.T) {
	requests := newFakeRequests(inspectedRequest(1, 7))
	receipts := newFakeReceipts()
	svc, _ := newPaymentService(t, receipts, requests)

	resp, err := svc.GenerateLink(context.Background(), &models.GeneratePaymentLinkRequest{
		RequestID: 1, Amount: 1500, DueDate: futureDate(5),
	})
	if err != nil {
		t.Fatalf("GenerateLink: %v", err)
	}

	file, header := receiptUpload(t)
	receipt, err := svc.Upload(context.Background(), resp.UploadToken, file, header)
	file.Close()
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if receipt.Status != models.ReceiptStatusUploaded {
		t.Errorf("receipt status = %q, want uploaded", receipt.Status)
	}
	if receipt.FilePath == "" || receipt.TokenUsedAt == nil {
		t.Error("upload should record file path and token use")
	}

	file2, header2 := receiptUpload(t)
	defer file2.Close()
	_, err = svc.Upload(context.Background(), resp.UploadToken, file2, header2)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second upload should be rejected, got %v", err)
	}
}

func TestUploadRejectsBadToken(t *testing.T) {
	svc, _ := newPaymentService(t, newFakeReceipts(), newFakeRequests())

	file, header := receiptUpload(t)
	defer file.Close()
	if _, err := svc.Upload(context.Background(), "not-a-token", file, header); err == nil {
		t.Fatal("expected error for invalid token")
	}
}

func TestVerifyAdvancesRequestToPaid(t *testing.T) {
	requests := newFakeRequests(inspectedRequest(1, 7))
	receipts := newFakeReceipts(&models.PaymentReceipt{
		ID: 10, RequestID: 1, ClientID: 7, Amount: 1500,
		Status: models.ReceiptStatusUploaded, Version: 2,
	})
	svc, notifications := newPaymentService(t, receipts, requests)

	receipt, err := svc.Verify(context.Background(), 10, &models.VerifyReceiptRequest{
		Action:         "verify",
		FinanceRemarks: "matches bank statement",
		Version:        2,
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if receipt.Status != models.ReceiptStatusVerified {
		t.Errorf("receipt status = %q, want verified", receipt.Status)
	}

	req, _ := requests.Get(context.Background(), 1)
	if req.Status != models.RequestStatusPaid {
		t.Errorf("request status = %q, want paid", req.Status)
	}
	if len(notifications.created) != 1 {
		t.Errorf("expected one client notification, got %d", len(notifications.created))
	}
}

func TestVerifyStaleVersionConflicts(t *testing.T) {
	receipts := newFakeReceipts(&models.PaymentReceipt{
		ID: 10, RequestID: 1, ClientID: 7,
		Status: models.ReceiptStatusUploaded, Version: 3,
	})
	svc, _ := newPaymentService(t, receipts, newFakeRequests(inspectedRequest(1, 7)))

	_, err := svc.Verify(context.Background(), 10, &models.VerifyReceiptRequest{
		Action: "verify", Version: 2,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	receipts := newFakeReceipts(&models.PaymentReceipt{
		ID: 10, RequestID: 1, ClientID: 7,
		Status: models.ReceiptStatusUploaded, Version: 1,
	})
	svc, _ := newPaymentService(t, receipts, newFakeRequests(inspectedRequest(1, 7)))

	if _, err := svc.Verify(context.Background(), 10, &models.VerifyReceiptRequest{
		Action: "reject", Version: 1,
	}); err == nil {
		t.Fatal("expected error for rejection without reason")
	}
}

func TestDeleteOnlyRejectedReceipts(t *testing.T) {
	receipts := newFakeReceipts(
		&models.PaymentReceipt{ID: 10, Status: models.ReceiptStatusVerified},
		&models.PaymentReceipt{ID: 11, Status: models.ReceiptStatusRejected},
	)
	svc, _ := newPaymentService(t, receipts, newFakeRequests())

	if err := svc.Delete(context.Background(), 10); !errors.Is(err, ErrInvalidState) {
		t.Errorf("deleting verified receipt should fail, got %v", err)
	}
	if err := svc.Delete(context.Background(), 11); err != nil {
		t.Errorf("deleting rejected receipt: %v", err)
	}
}
