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

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// RegisterRoutes registers comment routes nested under a title's review.
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	comments := rg.Group("/:title_id/reviews/:review_id/comments")
	{
		comments.GET("", h.List)
		comments.GET("/:comment_id", h.Get)
		comments.POST("", h.Create)
		comments.PATCH("/:comment_id", h.Update)
		comments.DELETE("/:comment_id", h.Delete)
	}
}

func commentIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment ID"})
		return 0, false
	}
	return id, true
}

// List returns comments for a review
// GET /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	titleID, ok := titleIDParam(c)
	if !ok {
		return
	}
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}

	page, pageSize := pageParams(c)
	comments, total, err := h.svc.ListByReview(c.Request.Context(), titleID, reviewID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, dto.CommentFromModel(&comments[i]))
	}
	c.JSON(http.StatusOK, dto.NewPaginated(resp, int(total), page, pageSize))
}

// Get returns one comment
// GET /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, ok := titleIDParam(c)
	if !ok {
		return
	}
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}
	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	comment, err := h.svc.GetByID(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommentFromModel(comment))
}

// Create adds a comment authored by the caller
// POST /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionCreate, policy.Resource{Kind: policy.ResourceComment}) {
		respondForbidden(c)
		return
	}

	titleID, ok := titleIDParam(c)
	if !ok {
		return
	}
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}

	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.Create(c.Request.Context(), titleID, reviewID, p.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CommentFromModel(comment))
}

// Update replaces a comment's text; author, moderator or admin only
// PATCH /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, ok := titleIDParam(c)
	if !ok {
		return
	}
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}
	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	comment, err := h.svc.GetByID(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}

	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionUpdate, policy.Resource{Kind: policy.ResourceComment, AuthorID: comment.AuthorID}) {
		respondForbidden(c)
		return
	}

	var req dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), titleID, reviewID, commentID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommentFromModel(updated))
}

// Delete removes a comment
// DELETE /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, ok := titleIDParam(c)
	if !ok {
		return
	}
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}
	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	comment, err := h.svc.GetByID(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}

	p := middleware.PrincipalFrom(c)
	if !policy.Allow(p, policy.ActionDelete, policy.Resource{Kind: policy.ResourceComment, AuthorID: comment.AuthorID}) {
		respondForbidden(c)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), titleID, reviewID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted successfully"})
}
