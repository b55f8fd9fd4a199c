package handler

import (
	"net/http"
	"strconv"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/policy"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	svc service.TitleService
}

func NewTitleHandler(svc service.TitleService) *TitleHandler {
	return &TitleHandler{svc: svc}
}

func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:title_id", h.Get)
	rg.POST("", h.Create)
	rg.PATCH("/:title_id", h.Update)
	rg.DELETE("/:title_id", h.Delete)
}

// List returns titles, filterable by exact name/year/genre/category
// GET /api/v1/titles?name=...&year=...&genre=slug&category=slug
func (h *TitleHandler) List(c *gin.Context) {
	var filters repository.TitleFilters
	if v := c.Query("name"); v != "" {
		filters.Name = &v
	}
	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year filter"})
			return
		}
		filters.Year = &year
	}
	if v := c.Query("genre"); v != "" {
		filters.GenreSlug = &v
	}
	if v := c.Query("category"); v != "" {
		filters.CategorySlug = &v
	}

	page, pageSize := pageParams(c)
	titles, total, err := h.svc.List(c.Request.Context(), filters, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.TitleResponse, 0, len(titles))
	for _, title := range titles {
		resp = append(resp, dto.TitleFromModel(title))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, int(total), page, pageSize))
}

// Get returns one title with nested genre/category and computed rating
// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title ID"})
		return
	}

	title, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TitleFromModel(*title))
}

// Create adds a title; genre/category come in as bare slugs
// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionCreate, policy.Resource{Kind: policy.ResourceCatalog}) {
		respondForbidden(c)
		return
	}

	var req dto.CreateTitleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TitleFromModel(*title))
}

// Update partially updates a title
// PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionUpdate, policy.Resource{Kind: policy.ResourceCatalog}) {
		respondForbidden(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title ID"})
		return
	}

	var req dto.UpdateTitleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TitleFromModel(*title))
}

// Delete removes a title; its reviews and their comments cascade
// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionDelete, policy.Resource{Kind: policy.ResourceCatalog}) {
		respondForbidden(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title ID"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "title deleted successfully"})
}
