package handler

import (
	"net/http"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/policy"
	"reviewhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user management routes. The group must already
// carry the RequireAuth middleware; the admin policy is checked per request.
// The reserved username "me" addresses the caller's own profile, which is
// why "me" is rejected at signup.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:username", h.Get)
	rg.PATCH("/:username", h.Update)
	rg.DELETE("/:username", h.Delete)
}

func (h *UserHandler) requireAdmin(c *gin.Context) (policy.Principal, bool) {
	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionRead, policy.Resource{Kind: policy.ResourceUser}) {
		respondForbidden(c)
		return p, false
	}
	return p, true
}

// List returns all users
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	page, pageSize := pageParams(c)
	users, total, err := h.userService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.UserToResponse(&users[i], dto.PrivilegeFull))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, int(total), page, pageSize))
}

// Create adds a user with an optional explicit role
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	var req dto.CreateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.UserToResponse(user, dto.PrivilegeFull))
}

// Get returns one user by username; "me" resolves to the caller
// GET /api/v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	if c.Param("username") == "me" {
		h.getMe(c)
		return
	}
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	user, err := h.userService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserToResponse(user, dto.PrivilegeFull))
}

// Update partially updates a user; "me" resolves to the caller, whose role
// stays read-only unless they are an admin
// PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	if c.Param("username") == "me" {
		h.updateMe(c)
		return
	}
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	var req dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("username"), req, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserToResponse(user, dto.PrivilegeFull))
}

// Delete removes a user and, through cascades, their reviews and comments
// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	if c.Param("username") == "me" {
		// self-deletion is not offered
		respondForbidden(c)
		return
	}
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}

// getMe returns the caller's own profile
// GET /api/v1/users/me
func (h *UserHandler) getMe(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	user, err := h.userService.GetByID(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserToResponse(user, dto.PrivilegeFor(p)))
}

// updateMe updates the caller's own profile. Role changes are ignored
// unless the caller is an admin.
// PATCH /api/v1/users/me
func (h *UserHandler) updateMe(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var req dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	me, err := h.userService.GetByID(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	allowRole := p.Role == models.RoleAdmin || p.IsStaff
	user, err := h.userService.Update(c.Request.Context(), me.Username, req, allowRole)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserToResponse(user, dto.PrivilegeFor(p)))
}
