package handler

import (
	"net/http"
	"strconv"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/policy"
	"reviewhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterRoutes registers review routes nested under a title.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/:title_id/reviews")
	{
		reviews.GET("", h.List)
		reviews.GET("/:review_id", h.Get)
		reviews.POST("", h.Create)
		reviews.PATCH("/:review_id", h.Update)
		reviews.DELETE("/:review_id", h.Delete)
	}
}

func titleIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title ID"})
		return 0, false
	}
	return id, true
}

func reviewIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("review_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
		return 0, false
	}
	return id, true
}

// List returns reviews for a title
// GET /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := titleIDParam(c)
	if !ok {
		return
	}

	page, pageSize := pageParams(c)
	reviews, total, err := h.svc.ListByTitle(c.Request.Context(), titleID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, dto.ReviewFromModel(&reviews[i]))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, int(total), page, pageSize))
}

// Get returns one review
// GET /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := titleIDParam(c)
	if !ok {
		return
	}
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}

	review, err := h.svc.GetByID(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewFromModel(review))
}

// Create adds a review authored by the caller
// POST /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionCreate, policy.Resource{Kind: policy.ResourceReview}) {
		respondForbidden(c)
		return
	}

	titleID, ok := titleIDParam(c)
	if !ok {
		return
	}

	var req dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.svc.Create(c.Request.Context(), titleID, p.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ReviewFromModel(review))
}

// Update partially updates a review; author, moderator or admin only
// PATCH /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := titleIDParam(c)
	if !ok {
		return
	}
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}

	review, err := h.svc.GetByID(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionUpdate, policy.Resource{Kind: policy.ResourceReview, AuthorID: review.AuthorID}) {
		respondForbidden(c)
		return
	}

	var req dto.UpdateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), titleID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewFromModel(updated))
}

// Delete removes a review and its comments
// DELETE /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := titleIDParam(c)
	if !ok {
		return
	}
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}

	review, err := h.svc.GetByID(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionDelete, policy.Resource{Kind: policy.ResourceReview, AuthorID: review.AuthorID}) {
		respondForbidden(c)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), titleID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted successfully"})
}
