package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	StaffID  int64
	Username string
	Role     enums.StaffRole
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to staff clients.
type AccessTokenClaims struct {
	StaffID  int64           `json:"staff_id"`
	Username string          `json:"username"`
	Role     enums.StaffRole `json:"role"`
	jwt.RegisteredClaims
}
