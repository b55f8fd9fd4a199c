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

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	// Create persists a review authored by authorID for the title in the
	// path. A second review by the same author for the same title is a
	// validation failure.
	Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*models.Review, error)
	Update(ctx context.Context, titleID, reviewID int64, in dto.UpdateReviewDTO) (*models.Review, error)
	Delete(ctx context.Context, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("title")
		}
		return err
	}
	return nil
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.ListByTitle(ctx, titleID, page, pageSize)
}

func (s *reviewService) GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("review")
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForAuthorAndTitle(ctx, authorID, titleID, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.NewValidation("title", "you have already reviewed this title")
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     in.Text,
		Score:    in.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// the composite unique index wins the race the check above can lose
		if repository.IsUniqueViolation(err) {
			return nil, apperr.NewValidation("title", "you have already reviewed this title")
		}
		if repository.IsForeignKeyViolation(err) {
			return nil, apperr.NotFound("title")
		}
		return nil, err
	}

	return s.reviewRepo.GetByID(ctx, titleID, review.ID)
}

// Update rechecks uniqueness excluding the record itself rather than
// skipping the check for update requests.
func (s *reviewService) Update(ctx context.Context, titleID, reviewID int64, in dto.UpdateReviewDTO) (*models.Review, error) {
	review, err := s.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	// While the unique index holds, the author's only review for this title
	// is the record being updated, so this can only trip if the constraint
	// was dropped from the schema.
	exists, err := s.reviewRepo.ExistsForAuthorAndTitle(ctx, review.AuthorID, titleID, review.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.NewValidation("title", "you have already reviewed this title")
	}

	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Score != nil {
		review.Score = *in.Score
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return s.reviewRepo.GetByID(ctx, titleID, reviewID)
}

func (s *reviewService) Delete(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.GetByID(ctx, titleID, reviewID); err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}
