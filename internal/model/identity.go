package model

import "github.com/google/uuid"

// Identity is the authenticated caller of a request. It is resolved once by the
// auth middleware and handed explicitly to every service operation.
type Identity struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

func (i Identity) Can(privilege string) bool {
	return i.UserID != uuid.Nil && i.Role.HasPrivilege(privilege)
}
