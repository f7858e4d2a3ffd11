package http

import (
	"net/http"

	"desynflow-backend/internal/handlers"
	"desynflow-backend/internal/live"
	"desynflow-backend/internal/middleware"
	"desynflow-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the routers mount. Both portals share the
// same handler set; the routers differ in which routes they expose.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Users        *handlers.UserHandler
	TOTP         *handlers.TOTPHandler
	Suppliers    *handlers.SupplierHandler
	Requests     *handlers.InspectionRequestHandler
	Forms        *handlers.InspectionFormHandler
	Payments     *handlers.PaymentHandler
	Attendance   *handlers.AttendanceHandler
	Locations    *handlers.LocationHandler
	Warehouse    *handlers.WarehouseHandler
	Notification *handlers.NotificationHandler
	Files        *handlers.FilesHandler
	Reports      *handlers.ReportHandler
	Razorpay     *handlers.RazorpayHandler
	Health       *handlers.HealthHandler
}

// NewStaffRouter serves the staff portal: CSR, finance, warehouse,
// inspector and admin APIs.
func NewStaffRouter(h *Handlers, auth *middleware.AuthMiddleware, sessions *middleware.SessionMiddleware, hub *live.Hub) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	r.HandleFunc("/health", h.Health.Check).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.Ready).Methods("GET")
	r.HandleFunc("/health/detailed", h.Health.Detailed).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/ws", hub.HandleWebSocket)

	// Auth
	r.HandleFunc("/api/auth/login", h.Auth.Login).Methods("POST")
	r.HandleFunc("/api/auth/verify-2fa", h.Auth.Verify2FA).Methods("POST")
	r.HandleFunc("/api/auth/password-reset", h.Auth.RequestPasswordReset).Methods("POST")
	r.HandleFunc("/api/auth/password-reset/confirm", h.Auth.ConfirmPasswordReset).Methods("POST")

	// staff chains role enforcement with the inactivity tracker; anyStaff
	// only needs a valid login.
	staff := func(roles ...string) func(http.Handler) http.Handler {
		requireRole := auth.RequireRole(roles...)
		return func(next http.Handler) http.Handler {
			return requireRole(sessions.Track(next))
		}
	}
	anyStaff := func(next http.Handler) http.Handler {
		return auth.Authenticate(sessions.Track(next))
	}

	me := r.PathPrefix("/api/auth").Subrouter()
	me.Use(anyStaff)
	me.HandleFunc("/me", h.Auth.Me).Methods("GET")
	me.HandleFunc("/logout", h.Auth.Logout).Methods("POST")

	totpAPI := r.PathPrefix("/api/totp").Subrouter()
	totpAPI.Use(anyStaff)
	totpAPI.HandleFunc("/setup", h.TOTP.Setup).Methods("POST")
	totpAPI.HandleFunc("/enable", h.TOTP.Enable).Methods("POST")

	notificationsAPI := r.PathPrefix("/api/notifications").Subrouter()
	notificationsAPI.Use(anyStaff)
	notificationsAPI.HandleFunc("", h.Notification.List).Methods("GET")
	notificationsAPI.HandleFunc("/read-all", h.Notification.MarkAllRead).Methods("POST")
	notificationsAPI.HandleFunc("/{id}/read", h.Notification.MarkRead).Methods("POST")

	// Users: admin manages accounts; CSR needs the inspector list for
	// assignment.
	r.Handle("/api/users/inspectors",
		staff(models.RoleCSR, models.RoleAdmin)(http.HandlerFunc(h.Users.ListInspectors))).Methods("GET")

	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(staff(models.RoleAdmin))
	usersAPI.HandleFunc("", h.Users.ListUsers).Methods("GET")
	usersAPI.HandleFunc("", h.Users.CreateStaff).Methods("POST")
	usersAPI.HandleFunc("/{id}", h.Users.GetUser).Methods("GET")
	usersAPI.HandleFunc("/{id}/active", h.Users.SetActive).Methods("PATCH")

	// Suppliers: staff-side CRUD plus the materials catalog
	suppliersAPI := r.PathPrefix("/api/suppliers").Subrouter()
	suppliersAPI.Use(staff(models.RoleCSR, models.RoleAdmin))
	suppliersAPI.HandleFunc("", h.Suppliers.ListSuppliers).Methods("GET")
	suppliersAPI.HandleFunc("", h.Suppliers.CreateSupplier).Methods("POST")
	suppliersAPI.HandleFunc("/{id}", h.Suppliers.GetSupplier).Methods("GET")
	suppliersAPI.HandleFunc("/{id}", h.Suppliers.UpdateSupplier).Methods("PUT")
	suppliersAPI.HandleFunc("/{id}", h.Suppliers.DeleteSupplier).Methods("DELETE")

	r.Handle("/api/materials", anyStaff(http.HandlerFunc(h.Suppliers.Catalog))).Methods("GET")

	// Inspection requests
	requestsAPI := r.PathPrefix("/api/inspection-requests").Subrouter()
	requestsAPI.Handle("", staff(models.RoleCSR, models.RoleFinance, models.RoleAdmin)(http.HandlerFunc(h.Requests.ListRequests))).Methods("GET")
	requestsAPI.Handle("/mine", staff(models.RoleInspector)(http.HandlerFunc(h.Requests.ListMine))).Methods("GET")
	requestsAPI.Handle("/{id}", anyStaff(http.HandlerFunc(h.Requests.GetRequest))).Methods("GET")
	requestsAPI.Handle("/{id}/complete", staff(models.RoleCSR, models.RoleAdmin)(http.HandlerFunc(h.Requests.Complete))).Methods("PATCH")

	r.Handle("/api/assignments",
		staff(models.RoleCSR, models.RoleAdmin)(http.HandlerFunc(h.Requests.Assign))).Methods("POST")

	// Inspection forms
	formsAPI := r.PathPrefix("/api/inspection-forms").Subrouter()
	formsAPI.Handle("", staff(models.RoleInspector)(http.HandlerFunc(h.Forms.Submit))).Methods("POST")
	formsAPI.Handle("/pending", staff(models.RoleCSR, models.RoleFinance, models.RoleAdmin)(http.HandlerFunc(h.Forms.ListPendingReview))).Methods("GET")
	formsAPI.Handle("/by-request/{request_id}", anyStaff(http.HandlerFunc(h.Forms.GetByRequest))).Methods("GET")
	formsAPI.Handle("/{id}", anyStaff(http.HandlerFunc(h.Forms.GetForm))).Methods("GET")
	formsAPI.Handle("/{id}/review", staff(models.RoleCSR, models.RoleFinance, models.RoleAdmin)(http.HandlerFunc(h.Forms.Review))).Methods("PATCH")

	// Payment receipts. The upload route is public: the single-use token
	// in the path is the credential.
	r.HandleFunc("/api/payment-receipts/upload/{token}", h.Payments.Upload).Methods("POST")

	paymentsAPI := r.PathPrefix("/api/payment-receipts").Subrouter()
	paymentsAPI.Handle("", staff(models.RoleFinance, models.RoleCSR, models.RoleAdmin)(http.HandlerFunc(h.Payments.ListReceipts))).Methods("GET")
	paymentsAPI.Handle("/generate-link", staff(models.RoleCSR, models.RoleAdmin)(http.HandlerFunc(h.Payments.GenerateLink))).Methods("POST")
	paymentsAPI.Handle("/{id}", staff(models.RoleFinance, models.RoleCSR, models.RoleAdmin)(http.HandlerFunc(h.Payments.GetReceipt))).Methods("GET")
	paymentsAPI.Handle("/{id}/verify", staff(models.RoleFinance, models.RoleAdmin)(http.HandlerFunc(h.Payments.Verify))).Methods("PATCH")
	paymentsAPI.Handle("/{id}", staff(models.RoleFinance, models.RoleAdmin)(http.HandlerFunc(h.Payments.DeleteReceipt))).Methods("DELETE")

	// Attendance
	attendanceAPI := r.PathPrefix("/api/attendance").Subrouter()
	attendanceAPI.Handle("", staff(models.RoleCSR, models.RoleAdmin)(http.HandlerFunc(h.Attendance.Upsert))).Methods("POST")
	attendanceAPI.Handle("/sheet", staff(models.RoleCSR, models.RoleAdmin)(http.HandlerFunc(h.Attendance.TeamSheet))).Methods("GET")
	attendanceAPI.Handle("/mine", anyStaff(http.HandlerFunc(h.Attendance.MyHistory))).Methods("GET")

	// Inspector live locations
	locationsAPI := r.PathPrefix("/api/inspector-locations").Subrouter()
	locationsAPI.Handle("", staff(models.RoleInspector)(http.HandlerFunc(h.Locations.Update))).Methods("POST")
	locationsAPI.Handle("", staff(models.RoleCSR, models.RoleAdmin)(http.HandlerFunc(h.Locations.Snapshot))).Methods("GET")
	locationsAPI.Handle("/available", staff(models.RoleCSR, models.RoleAdmin)(http.HandlerFunc(h.Locations.ListAvailable))).Methods("GET")

	// Warehouse: disposal materials and transfer requests
	disposalsAPI := r.PathPrefix("/api/disposals").Subrouter()
	disposalsAPI.Use(staff(models.RoleWarehouse, models.RoleAdmin))
	disposalsAPI.HandleFunc("", h.Warehouse.ListDisposals).Methods("GET")
	disposalsAPI.HandleFunc("", h.Warehouse.CreateDisposal).Methods("POST")
	disposalsAPI.HandleFunc("/{id}", h.Warehouse.GetDisposal).Methods("GET")
	disposalsAPI.HandleFunc("/{id}", h.Warehouse.UpdateDisposal).Methods("PUT")
	disposalsAPI.HandleFunc("/{id}", h.Warehouse.DeleteDisposal).Methods("DELETE")

	transfersAPI := r.PathPrefix("/api/transfer-requests").Subrouter()
	transfersAPI.Use(staff(models.RoleWarehouse, models.RoleAdmin))
	transfersAPI.HandleFunc("", h.Warehouse.ListTransfers).Methods("GET")
	transfersAPI.HandleFunc("", h.Warehouse.CreateTransfer).Methods("POST")
	transfersAPI.HandleFunc("/{id}", h.Warehouse.GetTransfer).Methods("GET")
	transfersAPI.HandleFunc("/{id}", h.Warehouse.UpdateTransfer).Methods("PUT")
	transfersAPI.HandleFunc("/{id}", h.Warehouse.DeleteTransfer).Methods("DELETE")

	// Reports
	r.Handle("/api/reports/receipts/{id}/pdf",
		staff(models.RoleFinance, models.RoleCSR, models.RoleAdmin)(http.HandlerFunc(h.Reports.ReceiptPDF))).Methods("GET")
	r.Handle("/api/reports/payments.xlsx",
		staff(models.RoleFinance, models.RoleAdmin)(http.HandlerFunc(h.Reports.FinanceXLSX))).Methods("GET")

	// Uploaded files
	r.Handle("/uploads/{filename}", anyStaff(http.HandlerFunc(h.Files.Serve))).Methods("GET")

	return r
}

// NewClientRouter serves the client and supplier portals.
func NewClientRouter(h *Handlers, auth *middleware.AuthMiddleware, sessions *middleware.SessionMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	r.HandleFunc("/health", h.Health.Check).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.Ready).Methods("GET")

	// Client auth
	r.HandleFunc("/api/auth/signup", h.Auth.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", h.Auth.Login).Methods("POST")
	r.HandleFunc("/api/auth/verify-2fa", h.Auth.Verify2FA).Methods("POST")
	r.HandleFunc("/api/auth/password-reset", h.Auth.RequestPasswordReset).Methods("POST")
	r.HandleFunc("/api/auth/password-reset/confirm", h.Auth.ConfirmPasswordReset).Methods("POST")

	// Supplier auth
	r.HandleFunc("/api/suppliers/login", h.Suppliers.Login).Methods("POST")

	client := func(next http.Handler) http.Handler {
		return auth.RequireRole(models.RoleClient)(sessions.Track(next))
	}
	supplier := func(next http.Handler) http.Handler {
		return auth.AuthenticateSupplier(next)
	}

	me := r.PathPrefix("/api/auth").Subrouter()
	me.Use(func(next http.Handler) http.Handler {
		return auth.Authenticate(sessions.Track(next))
	})
	me.HandleFunc("/me", h.Auth.Me).Methods("GET")
	me.HandleFunc("/logout", h.Auth.Logout).Methods("POST")

	// Client inspection requests
	requestsAPI := r.PathPrefix("/api/inspection-requests").Subrouter()
	requestsAPI.Use(client)
	requestsAPI.HandleFunc("", h.Requests.CreateRequest).Methods("POST")
	requestsAPI.HandleFunc("/mine", h.Requests.ListMine).Methods("GET")
	requestsAPI.HandleFunc("/{id}", h.Requests.GetRequest).Methods("GET")

	// Client receipts and online payment
	r.HandleFunc("/api/payment-receipts/upload/{token}", h.Payments.Upload).Methods("POST")
	r.Handle("/api/payment-receipts/mine", client(http.HandlerFunc(h.Payments.ListMine))).Methods("GET")
	r.Handle("/api/payment-receipts/{id}/online-order", client(http.HandlerFunc(h.Razorpay.CreateOrder))).Methods("POST")
	r.HandleFunc("/api/razorpay/webhook", h.Razorpay.Webhook).Methods("POST")

	// Client notifications
	notificationsAPI := r.PathPrefix("/api/notifications").Subrouter()
	notificationsAPI.Use(client)
	notificationsAPI.HandleFunc("", h.Notification.List).Methods("GET")
	notificationsAPI.HandleFunc("/read-all", h.Notification.MarkAllRead).Methods("POST")
	notificationsAPI.HandleFunc("/{id}/read", h.Notification.MarkRead).Methods("POST")

	// Supplier self-service
	r.Handle("/api/suppliers/me", supplier(http.HandlerFunc(h.Suppliers.Profile))).Methods("GET")
	r.Handle("/api/materials", supplier(http.HandlerFunc(h.Suppliers.Catalog))).Methods("GET")

	// Clients can read their uploaded proofs back
	r.Handle("/uploads/{filename}", client(http.HandlerFunc(h.Files.Serve))).Methods("GET")

	return r
}
