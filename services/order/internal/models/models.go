package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/digitalloot/storefront/pkg/orderstatus"
)

type Order struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey"        json:"id"`
	OrderNumber        string             `gorm:"uniqueIndex;not null"        json:"order_number"`
	UserID             uuid.UUID          `gorm:"type:uuid;index;not null"    json:"user_id"`
	CustomerName       string             `gorm:"not null"                    json:"customer_name"`
	CustomerEmail      string             `gorm:"not null"                    json:"customer_email"`
	CustomerPhone      string             `json:"customer_phone"`
	ShippingAddress    string             `json:"shipping_address"`
	ShippingCity       string             `json:"shipping_city"`
	ShippingCountry    string             `json:"shipping_country"`
	ShippingPostalCode string             `json:"shipping_postal_code"`
	PaymentMethod      string             `gorm:"not null"                    json:"payment_method"`
	Notes              string             `gorm:"type:text"                   json:"notes"`
	Subtotal           decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Discount           decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"discount"`
	Tax                decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"tax"`
	Shipping           decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"shipping"`
	Total              decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"total"`
	Status             orderstatus.Status `gorm:"type:varchar(20);index;not null" json:"status"`
	EstimatedDelivery  *time.Time         `json:"estimated_delivery,omitempty"`
	DeliveredAt        *time.Time         `json:"delivered_at,omitempty"`
	CreatedAt          time.Time          `gorm:"index"                       json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// AfterFind reads legacy Spanish statuses as their canonical value.
func (o *Order) AfterFind(*gorm.DB) error {
	o.Status = orderstatus.Normalize(o.Status)
	return nil
}

type OrderItem struct {
	ID          uint            `gorm:"primaryKey"                  json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"    json:"order_id"`
	ProductID   uint            `gorm:"not null"                    json:"product_id"`
	ProductName string          `gorm:"not null"                    json:"product_name"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `gorm:"not null"                    json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
}

// StatusCount is one row of a per-status aggregate.
type StatusCount struct {
	Status orderstatus.Status
	Count  int64
	Total  decimal.Decimal
}
