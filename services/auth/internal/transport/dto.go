package transport

import "github.com/digitalloot/storefront/services/auth/internal/models"

type RegisterRequest struct {
	FullName        string `json:"full_name"        validate:"required,max=120"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type SessionResponse struct {
	User         *models.Profile `json:"user"`
	Role         string          `json:"role"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	AccessExp    int64           `json:"access_exp"`
	RefreshExp   int64           `json:"refresh_exp"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"  validate:"omitempty,max=120"`
	Phone     *string `json:"phone"      validate:"omitempty,max=30"`
	Address   *string `json:"address"    validate:"omitempty,max=200"`
	City      *string `json:"city"       validate:"omitempty,max=80"`
	Country   *string `json:"country"    validate:"omitempty,max=80"`
	Bio       *string `json:"bio"`
	BirthDate *string `json:"birth_date"`
}

type PreferencesRequest struct {
	Theme         string `json:"theme"         validate:"required,oneof=dark light"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"      validate:"omitempty,len=2"`
}

type AvatarRequest struct {
	AvatarURL string `json:"avatar_url" validate:"required,url"`
}
