package transport

import "github.com/shopspring/decimal"

const IdempotencyHeader = "Idempotency-Key"

type OrderLine struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"     validate:"required,max=200"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"    validate:"max=500"`
	Category  string          `json:"category" validate:"max=60"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
}

type Customer struct {
	Name       string `json:"name"        validate:"required,max=120"`
	Email      string `json:"email"       validate:"required,email"`
	Phone      string `json:"phone"       validate:"max=30"`
	Address    string `json:"address"     validate:"max=200"`
	City       string `json:"city"        validate:"max=80"`
	Country    string `json:"country"     validate:"max=80"`
	PostalCode string `json:"postal_code" validate:"max=20"`
}

type CreateOrderRequest struct {
	Items         []OrderLine `json:"items"          validate:"required,min=1,dive"`
	Customer      Customer    `json:"customer"`
	PaymentMethod string      `json:"payment_method" validate:"max=30"`
	Notes         string      `json:"notes"          validate:"max=1000"`
}
