package service

import (
	"context"
	"testing"

	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func strPtr(s string) *string {
	return &s
}

func TestUserUpdate_Rename(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("FindByUsername", mock.Anything, "oldname").
		Return(&models.User{ID: "id-1", Username: "oldname", Email: "r@example.com"}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Update(context.Background(), "oldname", dto.UpdateUserDTO{Username: strPtr("newname")}, false)
	assert.NoError(t, err)
	assert.Equal(t, "newname", user.Username)
	assert.Equal(t, "r@example.com", user.Email)
	repo.AssertExpectations(t)
}

func TestUserUpdate_RenameToReserved(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("FindByUsername", mock.Anything, "oldname").
		Return(&models.User{ID: "id-1", Username: "oldname"}, nil)

	for _, reserved := range []string{"me", "ME"} {
		_, err := svc.Update(context.Background(), "oldname", dto.UpdateUserDTO{Username: strPtr(reserved)}, false)
		ve, ok := apperr.AsValidation(err)
		assert.True(t, ok, "expected validation error for %q", reserved)
		assert.Contains(t, ve.Fields, "username")
	}
	repo.AssertNotCalled(t, "Update")
}

func TestUserUpdate_RenameToTakenUsername(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("FindByUsername", mock.Anything, "oldname").
		Return(&models.User{ID: "id-1", Username: "oldname"}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).
		Return(&pgconn.PgError{Code: "23505"})

	_, err := svc.Update(context.Background(), "oldname", dto.UpdateUserDTO{Username: strPtr("taken")}, false)
	ve, ok := apperr.AsValidation(err)
	assert.True(t, ok)
	assert.Contains(t, ve.Fields, "username")
}

func TestUserUpdate_RoleIgnoredWithoutPrivilege(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("FindByUsername", mock.Anything, "regular").
		Return(&models.User{ID: "id-1", Username: "regular", Role: models.RoleUser}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Update(context.Background(), "regular", dto.UpdateUserDTO{Role: strPtr(models.RoleAdmin)}, false)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestUserUpdate_RoleHonoredForAdminCaller(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("FindByUsername", mock.Anything, "regular").
		Return(&models.User{ID: "id-1", Username: "regular", Role: models.RoleUser}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Update(context.Background(), "regular", dto.UpdateUserDTO{Role: strPtr(models.RoleModerator)}, true)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleModerator, user.Role)
}
