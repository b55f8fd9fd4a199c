package service

import (
	"context"
	"errors"

	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, filters repository.TitleFilters, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, in dto.CreateTitleDTO) (*models.Title, error)
	Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	genreRepo    repository.GenreRepository
	categoryRepo repository.CategoryRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	genreRepo repository.GenreRepository,
	categoryRepo repository.CategoryRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		genreRepo:    genreRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *titleService) List(ctx context.Context, filters repository.TitleFilters, page, pageSize int) ([]models.Title, int64, error) {
	return s.titleRepo.List(ctx, filters, page, pageSize)
}

func (s *titleService) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("title")
		}
		return nil, err
	}
	return title, nil
}

// resolveGenres maps slugs to genre records, failing with field detail on
// any unknown slug.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		found := make(map[string]bool, len(genres))
		for _, g := range genres {
			found[g.Slug] = true
		}
		ve := &apperr.ValidationError{}
		for _, slug := range slugs {
			if !found[slug] {
				ve.Add("genre", "unknown genre slug: "+slug)
			}
		}
		return nil, ve
	}
	return genres, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewValidation("category", "unknown category slug: "+slug)
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) Create(ctx context.Context, in dto.CreateTitleDTO) (*models.Title, error) {
	genres, err := s.resolveGenres(ctx, in.Genre)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
	}
	if in.Category != nil {
		category, err := s.resolveCategory(ctx, *in.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}
	if len(genres) > 0 {
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	}

	// reload for the nested representation and null rating
	return s.GetByID(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*models.Title, error) {
	title, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// All slugs resolve before anything is written, so a bad genre or
	// category leaves the title untouched.
	var genres []models.Genre
	if in.Genre != nil {
		genres, err = s.resolveGenres(ctx, *in.Genre)
		if err != nil {
			return nil, err
		}
	}
	if in.Category != nil {
		category, err := s.resolveCategory(ctx, *in.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	if in.Name != nil {
		title.Name = *in.Name
	}
	if in.Year != nil {
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = in.Description
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}
	if in.Genre != nil {
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("title")
		}
		return err
	}
	return nil
}
