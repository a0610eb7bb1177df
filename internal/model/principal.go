package model

import (
	"strings"

	"github.com/google/uuid"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID uuid.UUID
	Name   string
	Role   string
}

// HasRole compares case-insensitively so legacy tokens carrying
// "Analyst" keep their access; an unknown or empty role never matches.
func (p Principal) HasRole(role string) bool {
	return role != "" && strings.EqualFold(p.Role, role)
}

func (p Principal) IsAnalyst() bool {
	return p.HasRole(RoleAnalyst)
}
