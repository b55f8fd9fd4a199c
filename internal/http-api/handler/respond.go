package handler

import (
	"errors"
	"net/http"
	"strconv"

	"reviewhub/internal/http-api/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy onto status codes:
// validation → 400 with field detail, permission → 403, not found → 404,
// everything else → 500.
func respondError(c *gin.Context, err error) {
	if ve, ok := apperr.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Fields})
		return
	}
	if errors.Is(err, apperr.ErrPermissionDenied) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
		return
	}
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func respondForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
}

// pageParams reads page/page_size query values with sane bounds.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
