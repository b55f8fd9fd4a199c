package dto

import (
	"testing"

	"reviewhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromModel_Rating(t *testing.T) {
	t.Run("NoReviewsRendersNull", func(t *testing.T) {
		resp := TitleFromModel(models.Title{ID: 1, Name: "Solaris", Year: 1961})
		assert.Nil(t, resp.Rating)
	})

	t.Run("AverageIsPassedThrough", func(t *testing.T) {
		avg := 4.0
		resp := TitleFromModel(models.Title{ID: 1, Name: "Solaris", Year: 1961, Rating: &avg})
		assert.NotNil(t, resp.Rating)
		assert.Equal(t, 4.0, *resp.Rating)
	})

	t.Run("NestedGenreAndCategory", func(t *testing.T) {
		title := models.Title{
			ID:   2,
			Name: "Dune",
			Year: 1965,
			Genres: []models.Genre{
				{ID: 1, Name: "Science Fiction", Slug: "sci-fi"},
			},
			Category: &models.Category{ID: 3, Name: "Books", Slug: "books"},
		}
		resp := TitleFromModel(title)
		assert.Len(t, resp.Genres, 1)
		assert.Equal(t, "sci-fi", resp.Genres[0].Slug)
		assert.Equal(t, "books", resp.Category.Slug)
	})

	t.Run("EmptyGenresRenderAsEmptyList", func(t *testing.T) {
		resp := TitleFromModel(models.Title{ID: 3, Name: "Kino", Year: 2000})
		assert.NotNil(t, resp.Genres)
		assert.Empty(t, resp.Genres)
		assert.Nil(t, resp.Category)
	})
}
