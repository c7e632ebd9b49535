package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/Neelesh56789/Smart-LMS/pkg/db/models"
	"github.com/Neelesh56789/Smart-LMS/pkg/enums"
)

// UserDTO is the public representation of a user account.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Role        enums.UserRole `json:"role"`
	Bio         *string        `json:"bio,omitempty"`
	AvatarURL   *string        `json:"avatar_url,omitempty"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// FromModel maps the persistence model onto the public DTO.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
