package transport

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price"`
	Platform    string          `json:"platform"    validate:"max=60"`
	Category    string          `json:"category"    validate:"max=60"`
	ImageURL    string          `json:"image_url"   validate:"max=500"`
	Active      *bool           `json:"active"`
	Featured    bool            `json:"featured"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	Platform    *string          `json:"platform"    validate:"omitempty,max=60"`
	Category    *string          `json:"category"    validate:"omitempty,max=60"`
	ImageURL    *string          `json:"image_url"   validate:"omitempty,max=500"`
	Active      *bool            `json:"active"`
	Featured    *bool            `json:"featured"`
}
