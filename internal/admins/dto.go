package admins

import (
	"time"

	"github.com/hillview-school/school-cms/pkg/db/models"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Admin       AdminDTO  `json:"admin"`
}

type CreateRequest struct {
	Email string
	Name  string
	// Password is generated when empty.
	Password string
}

// Credentials is returned by account commands. Password is only set when it
// was generated.
type Credentials struct {
	Admin    AdminDTO
	Password string
}

type AdminDTO struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func FromModel(a *models.Admin) AdminDTO {
	return AdminDTO{ID: a.ID, Email: a.Email, Name: a.Name, LastLoginAt: a.LastLoginAt}
}
