package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const CategoryDLC = "DLC"

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string          `gorm:"not null;index"              json:"name"`
	Description string          `gorm:"type:text"                   json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Platform    string          `gorm:"index"                       json:"platform"`
	Category    string          `gorm:"index"                       json:"category"`
	ImageURL    string          `json:"image_url"`
	Active      bool            `gorm:"not null;index"              json:"active"`
	Featured    bool            `gorm:"not null"                    json:"featured"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Image is ImageURL resolved against the storage base.
	Image string `gorm:"-" json:"image"`
}
