package dto

import (
	"time"

	"reviewhub/internal/http-api/models"
)

type CreateCommentDTO struct {
	Text string `json:"text" binding:"required"`
}

type UpdateCommentDTO struct {
	Text string `json:"text" binding:"required"`
}

type CommentResponse struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"pub_date"`
}

func CommentFromModel(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Text:      c.Text,
		Author:    c.Author.Username,
		CreatedAt: c.CreatedAt,
	}
}
