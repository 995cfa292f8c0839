package types

import "github.com/google/uuid"

// TokenClaims is the identity carried by a bearer token. It is passed
// explicitly into service calls; there is no ambient current-user state.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Role   string    `json:"role"`
}
