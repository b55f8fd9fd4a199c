package service

import (
	"context"
	"errors"
	"strings"

	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"

	"gorm.io/gorm"
)

type GenreService interface {
	List(ctx context.Context, page, pageSize int) ([]models.Genre, int64, error)
	Create(ctx context.Context, genre *models.Genre) error
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context, page, pageSize int) ([]models.Genre, int64, error) {
	return s.repo.List(ctx, page, pageSize)
}

func (s *genreService) Create(ctx context.Context, genre *models.Genre) error {
	genre.Name = strings.TrimSpace(genre.Name)
	if genre.Name == "" {
		return apperr.NewValidation("name", "genre name required")
	}
	if !slugPattern.MatchString(genre.Slug) {
		return apperr.NewValidation("slug", "slug may contain only letters, numbers, hyphens and underscores")
	}
	if err := s.repo.Create(ctx, genre); err != nil {
		if repository.IsUniqueViolation(err) {
			return apperr.NewValidation("slug", "a genre with that name or slug already exists")
		}
		return err
	}
	return nil
}

func (s *genreService) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	genre, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("genre")
		}
		return nil, err
	}
	return genre, nil
}

// DeleteBySlug detaches the genre from its titles and removes it.
// Titles themselves are never cascade-deleted.
func (s *genreService) DeleteBySlug(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("genre")
		}
		return err
	}
	return nil
}
