package services

import (
	"context"
	"errors"
	"testing"

	"desynflow-backend/internal/auth"
	"desynflow-backend/internal/config"
	"desynflow-backend/internal/models"
)

func newSupplierService() (*SupplierService, *fakeSuppliers) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "supplier-test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "desynflow-test"

	store := newFakeSuppliers()
	return NewSupplierService(store, auth.NewJWTManager(cfg)), store
}

func supplierRequest() *models.CreateSupplierRequest {
	return &models.CreateSupplierRequest{
		CompanyName: "Marble & Co",
		ContactName: "Dana",
		Email:       "sales@marbleco.test",
		Phone:       "9876543210",
		Password:    "first-password",
		Materials: []models.SupplierMaterial{
			{Name: "Italian Marble", PricePerUnit: 25.50},
			{Name: "Granite Slab", PricePerUnit: 12.75},
		},
		MaterialTypes: []string{"stone"},
	}
}

func TestSupplierUpdatePersistsEmailAndPassword(t *testing.T) {
	svc, _ := newSupplierService()
	ctx := context.Background()

	created, err := svc.Create(ctx, supplierRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Update(ctx, created.ID, &models.CreateSupplierRequest{
		Email:    "billing@marbleco.test",
		Password: "second-password",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	stored, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Email != "billing@marbleco.test" {
		t.Errorf("email = %q, want billing@marbleco.test", stored.Email)
	}
	if !auth.VerifyPassword(stored.PasswordHash, "second-password") {
		t.Error("new password does not verify against stored hash")
	}
	if auth.VerifyPassword(stored.PasswordHash, "first-password") {
		t.Error("old password still verifies after update")
	}
	// Untouched fields keep their stored values.
	if stored.CompanyName != "Marble & Co" {
		t.Errorf("company name changed to %q on partial update", stored.CompanyName)
	}

	// Login must work with the new credentials only.
	if _, err := svc.Login(ctx, &models.SupplierLoginRequest{
		Email:    "billing@marbleco.test",
		Password: "second-password",
	}); err != nil {
		t.Errorf("login with updated credentials: %v", err)
	}
	if _, err := svc.Login(ctx, &models.SupplierLoginRequest{
		Email:    "sales@marbleco.test",
		Password: "first-password",
	}); err == nil {
		t.Error("login with pre-update credentials still succeeds")
	}
}

func TestCatalogPriceFidelity(t *testing.T) {
	svc, _ := newSupplierService()
	ctx := context.Background()

	first, err := svc.Create(ctx, supplierRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	second := supplierRequest()
	second.CompanyName = "Timber Works"
	second.Email = "sales@timberworks.test"
	second.Materials = []models.SupplierMaterial{{Name: "Teak Plank", PricePerUnit: 99.99}}
	if _, err := svc.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	all, err := svc.Catalog(ctx, 0)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("catalog rows = %d, want 3", len(all))
	}

	prices := map[string]float64{}
	for _, entry := range all {
		prices[entry.MaterialName] = entry.PricePerUnit
	}
	if prices["Italian Marble"] != 25.50 {
		t.Errorf("Italian Marble price = %v, want 25.50", prices["Italian Marble"])
	}
	if prices["Teak Plank"] != 99.99 {
		t.Errorf("Teak Plank price = %v, want 99.99", prices["Teak Plank"])
	}

	// Supplier filter returns only that supplier's rows.
	mine, err := svc.Catalog(ctx, first.ID)
	if err != nil {
		t.Fatalf("Catalog filtered: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("filtered rows = %d, want 2", len(mine))
	}
	for _, entry := range mine {
		if entry.SupplierID != first.ID {
			t.Errorf("filtered catalog leaked supplier %d", entry.SupplierID)
		}
	}
}

func TestSupplierGetMissing(t *testing.T) {
	svc, _ := newSupplierService()

	if _, err := svc.Get(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(context.Background(), 404, &models.CreateSupplierRequest{Phone: "1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}
