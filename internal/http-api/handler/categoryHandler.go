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

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// RegisterRoutes registers category routes. Reads are open to anonymous
// callers; writes require the admin policy. No update endpoint.
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:slug", h.Get)
	rg.POST("", h.Create)
	rg.DELETE("/:slug", h.Delete)
}

// List returns all categories
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.svc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.CategoryResponse, 0, len(list))
	for _, category := range list {
		resp = append(resp, dto.CategoryFromModel(category))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, int(total), page, pageSize))
}

// Get returns one category by slug
// GET /api/v1/categories/:slug
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoryFromModel(*category))
}

// Create adds a category
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionCreate, policy.Resource{Kind: policy.ResourceCatalog}) {
		respondForbidden(c)
		return
	}

	var req dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{Name: req.Name, Slug: req.Slug}
	if err := h.svc.Create(c.Request.Context(), &category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CategoryFromModel(category))
}

// Delete removes a category; referencing titles keep a null category
// DELETE /api/v1/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionDelete, policy.Resource{Kind: policy.ResourceCatalog}) {
		respondForbidden(c)
		return
	}

	if err := h.svc.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted successfully"})
}
