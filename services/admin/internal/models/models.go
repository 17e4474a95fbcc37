// Package models holds the admin read models. Orders, items, profiles and
// products are owned by other services and share their tables.
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
	CustomerName       string             `json:"customer_name"`
	CustomerEmail      string             `json:"customer_email"`
	CustomerPhone      string             `json:"customer_phone"`
	ShippingAddress    string             `json:"shipping_address"`
	ShippingCity       string             `json:"shipping_city"`
	ShippingCountry    string             `json:"shipping_country"`
	ShippingPostalCode string             `json:"shipping_postal_code"`
	PaymentMethod      string             `json:"payment_method"`
	Notes              string             `gorm:"type:text"                   json:"notes"`
	Subtotal           decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Discount           decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"discount"`
	Tax                decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"tax"`
	Shipping           decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"shipping"`
	Total              decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"total"`
	Status             orderstatus.Status `gorm:"type:varchar(20);index;not null" json:"status"`
	EstimatedDelivery  *time.Time         `json:"estimated_delivery,omitempty"`
	DeliveredAt        *time.Time         `json:"delivered_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// AfterFind reads legacy Spanish statuses as their canonical value.
func (o *Order) AfterFind(*gorm.DB) error {
	o.Status = orderstatus.Normalize(o.Status)
	return nil
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID          uint            `gorm:"primaryKey"                  json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"    json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
}

func (OrderItem) TableName() string { return "order_items" }

type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex"          json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `gorm:"index"                json:"role"`
	AvatarURL   string     `json:"avatar_url"`
	Phone       string     `json:"phone"`
	City        string     `json:"city"`
	Country     string     `json:"country"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "profiles" }

type Product struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func (Product) TableName() string { return "products" }

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey"         json:"id"`
	Name      string    `gorm:"not null"           json:"name"`
	Email     string    `gorm:"not null;index"     json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"index"              json:"created_at"`
}

type StatusCount struct {
	Status orderstatus.Status
	Count  int64
	Total  decimal.Decimal
}
