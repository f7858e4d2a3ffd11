// Package validation holds the pure request validators. Each validator
// returns a field → message map; an empty map means the payload is valid.
// Insert validators enforce the full required set; update validators only
// check the fields present in the payload, so partial updates work.
package validation

import (
	"encoding/json"
	"strings"

	"desynflow-backend/internal/models"
	"desynflow-backend/internal/timeutil"
)

type Errors map[string]string

func (e Errors) add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func requireString(e Errors, field, value string) {
	if strings.TrimSpace(value) == "" {
		e.add(field, field+" is required")
	}
}

func requirePositive(e Errors, field string, value float64) {
	if value <= 0 {
		e.add(field, field+" must be a positive number")
	}
}

// requireFutureDate parses a YYYY-MM-DD value and requires it to fall on a
// day strictly after today (midnight-normalized).
func requireFutureDate(e Errors, field, value string) {
	if strings.TrimSpace(value) == "" {
		e.add(field, field+" is required")
		return
	}
	t, err := timeutil.ParseDate(value)
	if err != nil {
		e.add(field, field+" must be a valid date (YYYY-MM-DD)")
		return
	}
	if !timeutil.IsStrictlyFuture(t) {
		e.add(field, field+" must be a future date")
	}
}

func ValidateSupplierInsert(req *models.CreateSupplierRequest) Errors {
	e := Errors{}
	requireString(e, "company_name", req.CompanyName)
	requireString(e, "email", req.Email)
	requireString(e, "password", req.Password)
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		e.add("email", "email must be a valid address")
	}
	for _, m := range req.Materials {
		if strings.TrimSpace(m.Name) == "" {
			e.add("materials", "every material needs a name")
		}
		if m.PricePerUnit <= 0 {
			e.add("materials", "every material needs a positive price_per_unit")
		}
	}
	return e
}

// ValidateSupplierUpdate checks only the provided fields.
func ValidateSupplierUpdate(req *models.CreateSupplierRequest) Errors {
	e := Errors{}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		e.add("email", "email must be a valid address")
	}
	for _, m := range req.Materials {
		if strings.TrimSpace(m.Name) == "" {
			e.add("materials", "every material needs a name")
		}
		if m.PricePerUnit <= 0 {
			e.add("materials", "every material needs a positive price_per_unit")
		}
	}
	return e
}

func ValidateInspectionRequestInsert(req *models.CreateInspectionRequestRequest) Errors {
	e := Errors{}
	requireString(e, "property_address", req.PropertyAddress)
	requireString(e, "property_city", req.PropertyCity)
	requireString(e, "property_type", req.PropertyType)
	requireFutureDate(e, "requested_date", req.RequestedDate)
	return e
}

func ValidateDisposalMaterialInsert(d *models.DisposalMaterial, scheduledDate string) Errors {
	e := Errors{}
	requireString(e, "material_name", d.MaterialName)
	requireString(e, "warehouse_location", d.WarehouseLocation)
	requirePositive(e, "quantity", d.Quantity)
	requireFutureDate(e, "scheduled_date", scheduledDate)
	return e
}

func ValidateDisposalMaterialUpdate(d *models.DisposalMaterial, scheduledDate string) Errors {
	e := Errors{}
	if d.Quantity != 0 {
		requirePositive(e, "quantity", d.Quantity)
	}
	if scheduledDate != "" {
		requireFutureDate(e, "scheduled_date", scheduledDate)
	}
	return e
}

func ValidateTransferRequestInsert(t *models.TransferRequest, requiredBy string) Errors {
	e := Errors{}
	if t.MaterialID <= 0 {
		e.add("material_id", "material_id is required")
	}
	requirePositive(e, "quantity", t.Quantity)
	requireString(e, "from_location", t.FromLocation)
	requireString(e, "to_location", t.ToLocation)
	requireFutureDate(e, "required_by", requiredBy)
	return e
}

func ValidateTransferRequestUpdate(t *models.TransferRequest, requiredBy string) Errors {
	e := Errors{}
	if t.Quantity != 0 {
		requirePositive(e, "quantity", t.Quantity)
	}
	if requiredBy != "" {
		requireFutureDate(e, "required_by", requiredBy)
	}
	return e
}

func ValidateAttendanceUpsert(req *models.UpsertAttendanceRequest) Errors {
	e := Errors{}
	if req.UserID <= 0 {
		e.add("user_id", "user_id is required")
	}
	if req.TeamID <= 0 {
		e.add("team_id", "team_id is required")
	}
	requireString(e, "date", req.Date)
	if req.Date != "" {
		if _, err := timeutil.ParseDate(req.Date); err != nil {
			e.add("date", "date must be a valid date (YYYY-MM-DD)")
		}
	}
	switch req.Status {
	case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLate, models.AttendanceOffDuty:
	default:
		e.add("status", "status must be one of present, absent, late, off_duty")
	}
	return e
}

// formRequiredKeys are the keys every inspection form must carry regardless
// of property type. Unknown extra keys are stored as-is.
var formRequiredKeys = []string{"summary", "condition_rating"}

func ValidateInspectionFormData(data json.RawMessage) Errors {
	e := Errors{}
	if len(data) == 0 {
		e.add("form_data", "form_data is required")
		return e
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		e.add("form_data", "form_data must be a JSON object")
		return e
	}

	for _, key := range formRequiredKeys {
		raw, ok := fields[key]
		if !ok || string(raw) == `""` || string(raw) == "null" {
			e.add("form_data."+key, key+" is required")
		}
	}
	return e
}
