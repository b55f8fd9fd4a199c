package dto

import (
	"time"

	"reviewhub/internal/http-api/models"
)

type CreateReviewDTO struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required,min=1,max=10"`
}

type UpdateReviewDTO struct {
	Text  *string `json:"text"`
	Score *int    `json:"score" binding:"omitempty,min=1,max=10"`
}

// ReviewResponse renders the author by username, as the profile endpoint
// is the only place exposing user ids.
type ReviewResponse struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"pub_date"`
}

func ReviewFromModel(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		Text:      r.Text,
		Author:    r.Author.Username,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
	}
}
