package dto

import "reviewhub/internal/http-api/models"

type CreateGenreDTO struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type GenreResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreFromModel(g models.Genre) GenreResponse {
	return GenreResponse{ID: g.ID, Name: g.Name, Slug: g.Slug}
}
