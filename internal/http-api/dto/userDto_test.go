package dto

import (
	"testing"

	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/policy"

	"github.com/stretchr/testify/assert"
)

func sampleUser() *models.User {
	return &models.User{
		ID:        "id-1",
		Username:  "reader",
		Email:     "reader@example.com",
		FirstName: "Rea",
		LastName:  "Der",
		Bio:       "reads a lot",
		Role:      models.RoleModerator,
	}
}

func TestUserToResponse_Minimal(t *testing.T) {
	resp := UserToResponse(sampleUser(), PrivilegeMinimal)

	assert.Equal(t, "reader", resp.Username)
	assert.Equal(t, "reader@example.com", resp.Email)
	assert.Empty(t, resp.FirstName)
	assert.Empty(t, resp.Bio)
	assert.Empty(t, resp.Role)
}

func TestUserToResponse_Standard(t *testing.T) {
	resp := UserToResponse(sampleUser(), PrivilegeStandard)

	assert.Equal(t, "Rea", resp.FirstName)
	assert.Equal(t, "reads a lot", resp.Bio)
	assert.Equal(t, models.RoleModerator, resp.Role)
}

func TestPrivilegeFor(t *testing.T) {
	t.Run("Anonymous", func(t *testing.T) {
		assert.Equal(t, PrivilegeMinimal, PrivilegeFor(policy.Anonymous))
	})

	t.Run("PlainUser", func(t *testing.T) {
		p := policy.Principal{ID: "u", Role: models.RoleUser, Authenticated: true}
		assert.Equal(t, PrivilegeStandard, PrivilegeFor(p))
	})

	t.Run("Admin", func(t *testing.T) {
		p := policy.Principal{ID: "a", Role: models.RoleAdmin, Authenticated: true}
		assert.Equal(t, PrivilegeFull, PrivilegeFor(p))
	})

	t.Run("Staff", func(t *testing.T) {
		p := policy.Principal{ID: "s", Role: models.RoleUser, IsStaff: true, Authenticated: true}
		assert.Equal(t, PrivilegeFull, PrivilegeFor(p))
	})
}
