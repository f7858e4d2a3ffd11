package validation

import (
	"encoding/json"
	"testing"
	"time"

	"desynflow-backend/internal/models"
)

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestValidateSupplierInsertRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		req   models.CreateSupplierRequest
		field string
	}{
		{"missing company name", models.CreateSupplierRequest{Email: "a@b.c", Password: "x"}, "company_name"},
		{"missing email", models.CreateSupplierRequest{CompanyName: "Acme", Password: "x"}, "email"},
		{"missing password", models.CreateSupplierRequest{CompanyName: "Acme", Email: "a@b.c"}, "password"},
		{"whitespace company name", models.CreateSupplierRequest{CompanyName: "   ", Email: "a@b.c", Password: "x"}, "company_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateSupplierInsert(&tt.req)
			if len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("expected error keyed by %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidateSupplierInsertValid(t *testing.T) {
	req := models.CreateSupplierRequest{
		CompanyName: "Premium Interiors",
		Email:       "sales@premium.test",
		Password:    "secret123",
		Materials: []models.SupplierMaterial{
			{Name: "Premium Wood", PricePerUnit: 25.50},
		},
	}
	if errs := ValidateSupplierInsert(&req); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateSupplierInsertBadMaterial(t *testing.T) {
	req := models.CreateSupplierRequest{
		CompanyName: "Acme",
		Email:       "a@b.c",
		Password:    "x",
		Materials:   []models.SupplierMaterial{{Name: "Wood", PricePerUnit: 0}},
	}
	errs := ValidateSupplierInsert(&req)
	if _, ok := errs["materials"]; !ok {
		t.Errorf("expected materials error for zero price, got %v", errs)
	}
}

func TestValidateTransferRequestInsertDates(t *testing.T) {
	base := models.TransferRequest{
		MaterialID:   1,
		Quantity:     5,
		FromLocation: "A",
		ToLocation:   "B",
	}

	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"today fails", time.Now().Format("2006-01-02"), true},
		{"yesterday fails", time.Now().AddDate(0, 0, -1).Format("2006-01-02"), true},
		{"tomorrow passes", time.Now().AddDate(0, 0, 1).Format("2006-01-02"), false},
		{"next week passes", futureDate(), false},
		{"garbage fails", "not-a-date", true},
		{"empty fails", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateTransferRequestInsert(&base, tt.date)
			_, hasErr := errs["required_by"]
			if hasErr != tt.wantErr {
				t.Errorf("required_by error = %v, want %v (errs: %v)", hasErr, tt.wantErr, errs)
			}
		})
	}
}

func TestValidateTransferRequestInsertRequiredFields(t *testing.T) {
	errs := ValidateTransferRequestInsert(&models.TransferRequest{}, "")
	for _, field := range []string{"material_id", "quantity", "from_location", "to_location", "required_by"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %q, got %v", field, errs)
		}
	}
}

func TestValidateTransferRequestInsertNegativeQuantity(t *testing.T) {
	req := models.TransferRequest{MaterialID: 1, Quantity: -2, FromLocation: "A", ToLocation: "B"}
	errs := ValidateTransferRequestInsert(&req, futureDate())
	if _, ok := errs["quantity"]; !ok {
		t.Errorf("expected quantity error for negative value, got %v", errs)
	}
}

// Partial updates must not re-require the full insert field set.
func TestValidateTransferRequestUpdatePartial(t *testing.T) {
	if errs := ValidateTransferRequestUpdate(&models.TransferRequest{}, ""); len(errs) != 0 {
		t.Errorf("empty update payload should be valid, got %v", errs)
	}

	errs := ValidateTransferRequestUpdate(&models.TransferRequest{Quantity: -1}, "")
	if _, ok := errs["quantity"]; !ok {
		t.Errorf("provided negative quantity should still fail, got %v", errs)
	}

	errs = ValidateTransferRequestUpdate(&models.TransferRequest{}, time.Now().Format("2006-01-02"))
	if _, ok := errs["required_by"]; !ok {
		t.Errorf("provided non-future date should still fail, got %v", errs)
	}
}

func TestValidateDisposalMaterialInsert(t *testing.T) {
	d := models.DisposalMaterial{
		MaterialName:      "Scrap Plywood",
		WarehouseLocation: "WH-2",
		Quantity:          10,
	}
	if errs := ValidateDisposalMaterialInsert(&d, futureDate()); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}

	errs := ValidateDisposalMaterialInsert(&models.DisposalMaterial{}, time.Now().Format("2006-01-02"))
	for _, field := range []string{"material_name", "warehouse_location", "quantity", "scheduled_date"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %q, got %v", field, errs)
		}
	}
}

func TestValidateInspectionRequestInsert(t *testing.T) {
	req := models.CreateInspectionRequestRequest{
		PropertyAddress: "12 Garden Lane",
		PropertyCity:    "Colombo",
		PropertyType:    "apartment",
		RequestedDate:   futureDate(),
	}
	if errs := ValidateInspectionRequestInsert(&req); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}

	req.RequestedDate = time.Now().Format("2006-01-02")
	if _, ok := ValidateInspectionRequestInsert(&req)["requested_date"]; !ok {
		t.Error("today's date should fail the strict-future check")
	}
}

func TestValidateAttendanceUpsert(t *testing.T) {
	req := models.UpsertAttendanceRequest{
		UserID: 1,
		TeamID: 2,
		Date:   "2026-08-29",
		Status: models.AttendancePresent,
	}
	if errs := ValidateAttendanceUpsert(&req); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}

	req.Status = "vacationing"
	if _, ok := ValidateAttendanceUpsert(&req)["status"]; !ok {
		t.Error("unknown status should fail")
	}
}

func TestValidateInspectionFormData(t *testing.T) {
	valid := json.RawMessage(`{"summary":"all good","condition_rating":4,"extra_field":"kept"}`)
	if errs := ValidateInspectionFormData(valid); len(errs) != 0 {
		t.Errorf("unknown extra fields must be accepted, got %v", errs)
	}

	missing := json.RawMessage(`{"condition_rating":4}`)
	if _, ok := ValidateInspectionFormData(missing)["form_data.summary"]; !ok {
		t.Error("missing summary should fail")
	}

	if errs := ValidateInspectionFormData(json.RawMessage(`[1,2]`)); len(errs) == 0 {
		t.Error("non-object form_data should fail")
	}

	if errs := ValidateInspectionFormData(nil); len(errs) == 0 {
		t.Error("empty form_data should fail")
	}
}
