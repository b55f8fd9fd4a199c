package dto

import (
	"time"

	"reviewhub/internal/http-api/models"
)

// CreateTitleDTO takes bare slugs for genre/category; they are resolved to
// existing records and rejected with field detail when unknown.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,dive,max=50"`
	Category    *string  `json:"category" binding:"omitempty,max=50"`
}

// UpdateTitleDTO is a partial update; nil fields are left untouched.
// An empty genre list clears the associations; a nil one keeps them.
type UpdateTitleDTO struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre" binding:"omitempty,dive,max=50"`
	Category    *string   `json:"category" binding:"omitempty,max=50"`
}

// TitleResponse renders genre/category as full nested objects.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description *string           `json:"description,omitempty"`
	Rating      *float64          `json:"rating"`
	Genres      []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
	CreatedAt   time.Time         `json:"created_at"`
}

func TitleFromModel(t models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Rating:      t.Rating,
		Genres:      make([]GenreResponse, 0, len(t.Genres)),
		CreatedAt:   t.CreatedAt,
	}
	for _, g := range t.Genres {
		resp.Genres = append(resp.Genres, GenreFromModel(g))
	}
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		resp.Category = &c
	}
	return resp
}
