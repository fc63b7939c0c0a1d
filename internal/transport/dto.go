package transport

import (
	"time"

	"github.com/nventon/user-backend/internal/models"
)

// PublicUser is what leaves the service: no password hash, no storage
// timestamps, whichever operation produced the record.
type PublicUser struct {
	ID              uint   `json:"id"`
	LastName        string `json:"lastname"`
	FirstName       string `json:"firstname"`
	Username        string `json:"username"`
	AdminPermission *int   `json:"admin_permission,omitempty"`
}

func ToPublic(u *models.User) PublicUser {
	return PublicUser{
		ID:              u.ID,
		LastName:        u.LastName,
		FirstName:       u.FirstName,
		Username:        u.Username,
		AdminPermission: u.AdminPermission,
	}
}

type CreateUserRequest struct {
	LastName  string `json:"lastname"`
	FirstName string `json:"firstname"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type UpdateUserRequest struct {
	LastName        *string `json:"lastname"`
	FirstName       *string `json:"firstname"`
	Username        *string `json:"username"`
	Password        *string `json:"password"`
	AdminPermission *int    `json:"admin_permission"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogoutRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type TryTokenRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type LoginResult struct {
	User      PublicUser `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
}
