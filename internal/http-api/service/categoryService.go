package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"

	"gorm.io/gorm"
)

// slugPattern matches URL-safe slugs: letters, digits, hyphens, underscores.
var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryService interface {
	List(ctx context.Context, page, pageSize int) ([]models.Category, int64, error)
	Create(ctx context.Context, category *models.Category) error
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, page, pageSize int) ([]models.Category, int64, error) {
	return s.repo.List(ctx, page, pageSize)
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return apperr.NewValidation("name", "category name required")
	}
	if !slugPattern.MatchString(category.Slug) {
		return apperr.NewValidation("slug", "slug may contain only letters, numbers, hyphens and underscores")
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return apperr.NewValidation("slug", "a category with that name or slug already exists")
		}
		return err
	}
	return nil
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category")
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) DeleteBySlug(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category")
		}
		return err
	}
	return nil
}
