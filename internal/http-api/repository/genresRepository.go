package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/http-api/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	List(ctx context.Context, page, pageSize int) ([]models.Genre, int64, error)
	Create(ctx context.Context, genre *models.Genre) error
	FindBySlug(ctx context.Context, slug string) (*models.Genre, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) List(ctx context.Context, page, pageSize int) ([]models.Genre, int64, error) {
	var list []models.Genre
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Genre{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).
		Order("name asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list genres: %w", err)
	}
	return list, total, nil
}

func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		return fmt.Errorf("create genre: %w", err)
	}
	return nil
}

func (r *genreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// FindBySlugs resolves a batch of slugs. Callers compare the result length
// against the input to detect unknown slugs.
func (r *genreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("find genres by slugs: %w", err)
	}
	return genres, nil
}

// DeleteBySlug removes the genre and its join rows. Titles are detached,
// never deleted.
func (r *genreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	genre, err := r.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	// detach from titles first; the join-table cascade also covers this,
	// the explicit delete keeps the behavior migration-independent
	if err := r.db.WithContext(ctx).Exec("DELETE FROM title_genres WHERE genre_id = ?", genre.ID).Error; err != nil {
		return fmt.Errorf("detach genre: %w", err)
	}
	return r.db.WithContext(ctx).Delete(genre).Error
}
