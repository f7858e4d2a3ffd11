package services

import (
	"context"
	"sync"
	"time"

	"desynflow-backend/internal/models"
	"desynflow-backend/internal/repositories"
)

// In-memory fakes mirroring the repositories' guard semantics.

type fakeRequests struct {
	mu   sync.Mutex
	byID map[int]*models.InspectionRequest
}

func newFakeRequests(reqs ...*models.InspectionRequest) *fakeRequests {
	f := &fakeRequests{byID: make(map[int]*models.InspectionRequest)}
	for _, r := range reqs {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeRequests) Create(_ context.Context, req *models.InspectionRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req.ID = len(f.byID) + 1
	req.Version = 1
	f.byID[req.ID] = req
	return nil
}

func (f *fakeRequests) Get(_ context.Context, id int) (*models.InspectionRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copy := *req
	return &copy, nil
}

func (f *fakeRequests) List(context.Context) ([]*models.InspectionRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.InspectionRequest
	for _, r := range f.byID {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequests) ListByClient(ctx context.Context, clientID int) ([]*models.InspectionRequest, error) {
	all, _ := f.List(ctx)
	var out []*models.InspectionRequest
	for _, r := range all {
		if r.ClientID == clientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequests) ListByStatus(ctx context.Context, status string) ([]*models.InspectionRequest, error) {
	all, _ := f.List(ctx)
	var out []*models.InspectionRequest
	for _, r := range all {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequests) ListByInspector(ctx context.Context, inspectorID int) ([]*models.InspectionRequest, error) {
	all, _ := f.List(ctx)
	var out []*models.InspectionRequest
	for _, r := range all {
		if r.InspectorID != nil && *r.InspectorID == inspectorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequests) Assign(_ context.Context, requestID, inspectorID, version int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.byID[requestID]
	if !ok || req.Status != models.RequestStatusPending || req.Version != version {
		return repositories.ErrStaleVersion
	}
	req.InspectorID = &inspectorID
	req.Status = models.RequestStatusAssigned
	req.Version++
	return nil
}

func (f *fakeRequests) Transition(_ context.Context, requestID int, from, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.byID[requestID]
	if !ok || req.Status != from {
		return repositories.ErrStaleVersion
	}
	req.Status = to
	req.Version++
	return nil
}

func (f *fakeRequests) SetPaymentTerms(_ context.Context, requestID int, amount float64, dueDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.byID[requestID]
	if !ok {
		return repositories.ErrNotFound
	}
	req.Amount = amount
	req.PaymentDueDate = &dueDate
	return nil
}

type fakeReceipts struct {
	mu   sync.Mutex
	byID map[int]*models.PaymentReceipt
}

func newFakeReceipts(receipts ...*models.PaymentReceipt) *fakeReceipts {
	f := &fakeReceipts{byID: make(map[int]*models.PaymentReceipt)}
	for _, r := range receipts {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeReceipts) Create(_ context.Context, receipt *models.PaymentReceipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	receipt.ID = len(f.byID) + 1
	receipt.Version = 1
	f.byID[receipt.ID] = receipt
	return nil
}

func (f *fakeReceipts) Get(_ context.Context, id int) (*models.PaymentReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	receipt, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copy := *receipt
	return &copy, nil
}

func (f *fakeReceipts) GetByRequest(_ context.Context, requestID int) (*models.PaymentReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.RequestID == requestID {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeReceipts) List(context.Context) ([]*models.PaymentReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.PaymentReceipt
	for _, r := range f.byID {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReceipts) ListByClient(ctx context.Context, clientID int) ([]*models.PaymentReceipt, error) {
	all, _ := f.List(ctx)
	var out []*models.PaymentReceipt
	for _, r := range all {
		if r.ClientID == clientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReceipts) AttachFile(_ context.Context, id int, filePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	receipt, ok := f.byID[id]
	if !ok || receipt.Status != models.ReceiptStatusLinkGenerated {
		return repositories.ErrStaleVersion
	}
	now := time.Now()
	receipt.FilePath = filePath
	receipt.Status = models.ReceiptStatusUploaded
	receipt.TokenUsedAt = &now
	receipt.Version++
	return nil
}

func (f *fakeReceipts) Resolve(_ context.Context, id int, status, remarks, rejectionReason string, version int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	receipt, ok := f.byID[id]
	if !ok || receipt.Status != models.ReceiptStatusUploaded || receipt.Version != version {
		return repositories.ErrStaleVersion
	}
	receipt.Status = status
	receipt.FinanceRemarks = remarks
	receipt.RejectionReason = rejectionReason
	receipt.Version++
	return nil
}

func (f *fakeReceipts) MarkVerifiedOnline(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	receipt, ok := f.byID[id]
	if !ok || (receipt.Status != models.ReceiptStatusLinkGenerated && receipt.Status != models.ReceiptStatusUploaded) {
		return repositories.ErrStaleVersion
	}
	receipt.Status = models.ReceiptStatusVerified
	receipt.FinanceRemarks = "paid online"
	receipt.Version++
	return nil
}

func (f *fakeReceipts) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeForms struct {
	mu   sync.Mutex
	byID map[int]*models.InspectionForm
}

func newFakeForms() *fakeForms {
	return &fakeForms{byID: make(map[int]*models.InspectionForm)}
}

func (f *fakeForms) Create(_ context.Context, form *models.InspectionForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	form.ID = len(f.byID) + 1
	form.Status = models.FormStatusSubmitted
	now := time.Now()
	form.SubmittedAt = &now
	f.byID[form.ID] = form
	return nil
}

func (f *fakeForms) Get(_ context.Context, id int) (*models.InspectionForm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	form, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copy := *form
	return &copy, nil
}

func (f *fakeForms) GetByRequest(_ context.Context, requestID int) (*models.InspectionForm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, form := range f.byID {
		if form.RequestID == requestID {
			copy := *form
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeForms) ListByStatus(_ context.Context, status string) ([]*models.InspectionForm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.InspectionForm
	for _, form := range f.byID {
		if form.Status == status {
			out = append(out, form)
		}
	}
	return out, nil
}

func (f *fakeForms) Review(_ context.Context, id int, status, comments string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	form, ok := f.byID[id]
	if !ok || form.Status != models.FormStatusSubmitted {
		return repositories.ErrStaleVersion
	}
	form.Status = status
	form.ReviewerComments = comments
	now := time.Now()
	form.ReviewedAt = &now
	return nil
}

type fakeAvailability struct {
	mu     sync.Mutex
	states map[int]string
}

func newFakeAvailability() *fakeAvailability {
	return &fakeAvailability{states: make(map[int]string)}
}

func (f *fakeAvailability) SetAvailability(_ context.Context, inspectorID int, availability string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[inspectorID] = availability
	return nil
}

type fakeNotifications struct {
	mu      sync.Mutex
	created []*models.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, n)
	return nil
}

type fakeHub struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeHub) Broadcast(eventType string, _ interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}

type fakeAttendance struct {
	mu     sync.Mutex
	byKey  map[string]*models.Attendance
	nextID int
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{byKey: make(map[string]*models.Attendance)}
}

func attendanceKey(userID, teamID int, date time.Time) string {
	return date.Format("2006-01-02") + string(rune('A'+userID)) + string(rune('A'+teamID))
}

func (f *fakeAttendance) Upsert(_ context.Context, a *models.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := attendanceKey(a.UserID, a.TeamID, a.Date)
	if existing, ok := f.byKey[key]; ok {
		a.ID = existing.ID
	} else {
		f.nextID++
		a.ID = f.nextID
	}
	f.byKey[key] = a
	return nil
}

func (f *fakeAttendance) ListByTeamAndDate(_ context.Context, teamID int, date time.Time) ([]*models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Attendance
	for _, a := range f.byKey {
		if a.TeamID == teamID && a.Date.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendance) ListByUser(_ context.Context, userID int, from, to time.Time) ([]*models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Attendance
	for _, a := range f.byKey {
		if a.UserID == userID && !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeSuppliers struct {
	mu     sync.Mutex
	byID   map[int]*models.Supplier
	nextID int
}

func newFakeSuppliers() *fakeSuppliers {
	return &fakeSuppliers{byID: make(map[int]*models.Supplier)}
}

func (f *fakeSuppliers) Create(_ context.Context, s *models.Supplier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.ID = f.nextID
	copy := *s
	f.byID[s.ID] = &copy
	return nil
}

func (f *fakeSuppliers) Get(_ context.Context, id int) (*models.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copy := *s
	return &copy, nil
}

func (f *fakeSuppliers) GetByEmail(_ context.Context, email string) (*models.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byID {
		if s.Email == email {
			copy := *s
			return &copy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeSuppliers) List(context.Context) ([]*models.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Supplier
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSuppliers) Update(_ context.Context, s *models.Supplier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[s.ID]; !ok {
		return repositories.ErrNotFound
	}
	copy := *s
	f.byID[s.ID] = &copy
	return nil
}

func (f *fakeSuppliers) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// Catalog flattens material lists the way the SQL does, one row per
// supplier material.
func (f *fakeSuppliers) Catalog(_ context.Context, supplierID int) ([]*models.CatalogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.CatalogEntry
	for _, s := range f.byID {
		if supplierID != 0 && s.ID != supplierID {
			continue
		}
		for _, m := range s.Materials {
			out = append(out, &models.CatalogEntry{
				SupplierID:   s.ID,
				CompanyName:  s.CompanyName,
				MaterialName: m.Name,
				PricePerUnit: m.PricePerUnit,
			})
		}
	}
	return out, nil
}
