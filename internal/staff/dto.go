package staff

import "github.com/gyamfidev/phoneshop-backend/pkg/enums"

// CreateStaffInput carries validated input for onboarding a staff user.
type CreateStaffInput struct {
	Name     string          `json:"name" validate:"required,min=1,max=120"`
	Username string          `json:"username" validate:"required,min=3,max=64"`
	Password string          `json:"password" validate:"required,min=8,max=128"`
	Role     enums.StaffRole `json:"role" validate:"required"`
}

// LoginInput carries staff credentials.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string    `json:"token"`
	Staff StaffView `json:"staff"`
}

// StaffView is the safe-to-return projection of a staff user.
type StaffView struct {
	ID       int64           `json:"id"`
	PublicID string          `json:"public_id"`
	Name     string          `json:"name"`
	Username string          `json:"username"`
	Role     enums.StaffRole `json:"role"`
}
