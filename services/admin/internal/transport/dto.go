package transport

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// RoleRequest identifies a user by id or by email.
type RoleRequest struct {
	ID    string `json:"id"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (r RoleRequest) Ref() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Email
}

type ContactRequest struct {
	Name    string `json:"nombre"   validate:"required,max=120"`
	Email   string `json:"email"    validate:"required,max=200"`
	Phone   string `json:"telefono" validate:"max=30"`
	Subject string `json:"asunto"   validate:"max=200"`
	Message string `json:"mensaje"  validate:"required"`
}
