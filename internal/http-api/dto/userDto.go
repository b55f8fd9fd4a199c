package dto

import (
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/policy"
)

// Privilege selects which user fields a viewer gets. The original design
// swapped serializer classes at runtime; here the projection is an explicit
// function over an enum.
type Privilege int

const (
	// PrivilegeMinimal: username and email only (signup echo).
	PrivilegeMinimal Privilege = iota
	// PrivilegeStandard: profile fields included, role visible but read-only.
	PrivilegeStandard
	// PrivilegeFull: admin view, role writable.
	PrivilegeFull
)

// PrivilegeFor maps a viewer to their projection tier.
func PrivilegeFor(viewer policy.Principal) Privilege {
	if viewer.Authenticated && (viewer.Role == models.RoleAdmin || viewer.IsStaff) {
		return PrivilegeFull
	}
	if viewer.Authenticated {
		return PrivilegeStandard
	}
	return PrivilegeMinimal
}

// CreateUserDTO is the admin user-creation payload.
type CreateUserDTO struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email,max=254"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

// UpdateUserDTO is a partial profile update. Role is honored only when the
// caller holds the full privilege tier.
type UpdateUserDTO struct {
	Username  *string `json:"username" binding:"omitempty,max=150"`
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Role      string `json:"role,omitempty"`
}

// UserToResponse projects a user according to the viewer's privilege.
func UserToResponse(user *models.User, privilege Privilege) UserResponse {
	resp := UserResponse{
		Username: user.Username,
		Email:    user.Email,
	}
	if privilege >= PrivilegeStandard {
		resp.FirstName = user.FirstName
		resp.LastName = user.LastName
		resp.Bio = user.Bio
		resp.Role = user.Role
	}
	return resp
}
