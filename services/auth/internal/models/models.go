package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Preferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: "dark", Notifications: true, Language: "es"}
}

func (p Preferences) Value() (driver.Value, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (p *Preferences) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = DefaultPreferences()
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("preferences: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*p = DefaultPreferences()
		return nil
	}
	return json.Unmarshal(raw, p)
}

type Profile struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey"  json:"id"`
	Email        string      `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash string      `gorm:"not null"              json:"-"`
	FullName     string      `gorm:"not null"              json:"full_name"`
	Role         string      `gorm:"index;not null"        json:"role"`
	AvatarURL    string      `json:"avatar_url"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	City         string      `json:"city"`
	Country      string      `json:"country"`
	Bio          string      `json:"bio"`
	BirthDate    *time.Time  `json:"birth_date,omitempty"`
	Preferences  Preferences `gorm:"type:text"             json:"preferences"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index"      json:"user_id"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	TokenHash string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null"             json:"expires_at"`
	Revoked   bool      `gorm:"not null"             json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
