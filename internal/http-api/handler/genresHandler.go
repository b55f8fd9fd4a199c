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

type GenreHandler struct {
	svc service.GenreService
}

func NewGenreHandler(svc service.GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:slug", h.Get)
	rg.POST("", h.Create)
	rg.DELETE("/:slug", h.Delete)
}

// List returns all genres
// GET /api/v1/genres
func (h *GenreHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.svc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.GenreResponse, 0, len(list))
	for _, genre := range list {
		resp = append(resp, dto.GenreFromModel(genre))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, int(total), page, pageSize))
}

// Get returns one genre by slug
// GET /api/v1/genres/:slug
func (h *GenreHandler) Get(c *gin.Context) {
	genre, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GenreFromModel(*genre))
}

// Create adds a genre
// POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionCreate, policy.Resource{Kind: policy.ResourceCatalog}) {
		respondForbidden(c)
		return
	}

	var req dto.CreateGenreDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre := models.Genre{Name: req.Name, Slug: req.Slug}
	if err := h.svc.Create(c.Request.Context(), &genre); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.GenreFromModel(genre))
}

// Delete removes a genre, detaching it from titles
// DELETE /api/v1/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionDelete, policy.Resource{Kind: policy.ResourceCatalog}) {
		respondForbidden(c)
		return
	}

	if err := h.svc.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "genre deleted successfully"})
}
