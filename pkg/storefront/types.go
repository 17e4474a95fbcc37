package storefront

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/digitalloot/storefront/pkg/orderstatus"
)

type Product struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Platform    string          `json:"platform"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Image       string          `json:"image"`
	Active      bool            `json:"active"`
	Featured    bool            `json:"featured"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Preferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
}

type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	Role        string      `json:"role"`
	AvatarURL   string      `json:"avatar_url"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	Country     string      `json:"country"`
	Bio         string      `json:"bio"`
	Preferences Preferences `json:"preferences"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

type Customer struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

type OrderItem struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID                string             `json:"id"`
	OrderNumber       string             `json:"order_number"`
	UserID            string             `json:"user_id"`
	CustomerName      string             `json:"customer_name"`
	CustomerEmail     string             `json:"customer_email"`
	CustomerPhone     string             `json:"customer_phone"`
	PaymentMethod     string             `json:"payment_method"`
	Notes             string             `json:"notes"`
	Subtotal          decimal.Decimal    `json:"subtotal"`
	Tax               decimal.Decimal    `json:"tax"`
	Shipping          decimal.Decimal    `json:"shipping"`
	Total             decimal.Decimal    `json:"total"`
	Status            orderstatus.Status `json:"status"`
	EstimatedDelivery *time.Time         `json:"estimated_delivery,omitempty"`
	DeliveredAt       *time.Time         `json:"delivered_at,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	Items             []OrderItem        `json:"items"`
}

type OrderStats struct {
	Orders     int64                        `json:"orders"`
	TotalSpent decimal.Decimal              `json:"total_spent"`
	ByStatus   map[orderstatus.Status]int64 `json:"by_status"`
}

type DashboardStats struct {
	TotalOrders int64                        `json:"total_orders"`
	ByStatus    map[orderstatus.Status]int64 `json:"by_status"`
	TotalSales  decimal.Decimal              `json:"total_sales"`
}

type GlobalStats struct {
	Users      int64                        `json:"users"`
	Admins     int64                        `json:"admins"`
	Products   int64                        `json:"products"`
	Orders     int64                        `json:"orders"`
	ByStatus   map[orderstatus.Status]int64 `json:"by_status"`
	TotalSales decimal.Decimal              `json:"total_sales"`
}
