package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/http-api/models"

	"gorm.io/gorm"
)

// ratingSubquery computes the average review score per title at read time.
// NULL when the title has no reviews.
const ratingSubquery = "titles.*, (SELECT AVG(score) FROM reviews WHERE reviews.title_id = titles.id) AS rating"

// TitleFilters are AND-combined exact-match filters for title listing.
type TitleFilters struct {
	Name         *string
	Year         *int
	GenreSlug    *string
	CategorySlug *string
}

type TitleRepository interface {
	List(ctx context.Context, filters TitleFilters, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, title *models.Title) error
	Update(ctx context.Context, title *models.Title) error
	ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) applyFilters(q *gorm.DB, f TitleFilters) *gorm.DB {
	if f.Name != nil {
		q = q.Where("titles.name = ?", *f.Name)
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}
	if f.CategorySlug != nil {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", *f.CategorySlug)
	}
	if f.GenreSlug != nil {
		q = q.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", *f.GenreSlug)
	}
	return q
}

func (r *titleRepository) List(ctx context.Context, filters TitleFilters, page, pageSize int) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	countQ := r.applyFilters(r.db.WithContext(ctx).Model(&models.Title{}), filters)
	if err := countQ.Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	q := r.applyFilters(r.db.WithContext(ctx).Model(&models.Title{}), filters).
		Select(ratingSubquery).
		Preload("Genres").
		Preload("Category").
		Order("titles.id asc").
		Limit(pageSize).
		Offset(offset)

	if err := q.Find(&titles).Error; err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	return titles, total, nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	err := r.db.WithContext(ctx).
		Model(&models.Title{}).
		Select(ratingSubquery).
		Preload("Genres").
		Preload("Category").
		Where("titles.id = ?", id).
		First(&title).Error
	if err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	if err := r.db.WithContext(ctx).Create(title).Error; err != nil {
		return fmt.Errorf("create title: %w", err)
	}
	return nil
}

func (r *titleRepository) Update(ctx context.Context, title *models.Title) error {
	// Save would upsert associations; restrict to column updates and manage
	// the genre join rows through ReplaceGenres
	return r.db.WithContext(ctx).
		Model(&models.Title{ID: title.ID}).
		Select("name", "year", "description", "category_id").
		Updates(map[string]interface{}{
			"name":        title.Name,
			"year":        title.Year,
			"description": title.Description,
			"category_id": title.CategoryID,
		}).Error
}

func (r *titleRepository) ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error {
	return r.db.WithContext(ctx).Model(title).Association("Genres").Replace(genres)
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
