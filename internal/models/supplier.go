package models

import "time"

type SupplierMaterial struct {
	Name         string  `json:"name"`
	PricePerUnit float64 `json:"price_per_unit"`
}

type Supplier struct {
	ID              int                `json:"id"`
	CompanyName     string             `json:"company_name"`
	ContactName     string             `json:"contact_name"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone"`
	PasswordHash    string             `json:"-"`
	DeliveryRegions []string           `json:"delivery_regions"`
	Materials       []SupplierMaterial `json:"materials"`
	MaterialTypes   []string           `json:"material_types"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type CreateSupplierRequest struct {
	CompanyName     string             `json:"company_name"`
	ContactName     string             `json:"contact_name"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone"`
	Password        string             `json:"password"`
	DeliveryRegions []string           `json:"delivery_regions"`
	Materials       []SupplierMaterial `json:"materials"`
	MaterialTypes   []string           `json:"material_types"`
}

type SupplierLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CatalogEntry is one row of the material-pricing catalog, flattened from
// supplier material lists.
type CatalogEntry struct {
	SupplierID   int     `json:"supplier_id"`
	CompanyName  string  `json:"company_name"`
	MaterialName string  `json:"material_name"`
	PricePerUnit float64 `json:"price_per_unit"`
}
