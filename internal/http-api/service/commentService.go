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

type CommentService interface {
	ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]models.Comment, int64, error)
	GetByID(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	Create(ctx context.Context, titleID, reviewID int64, authorID string, in dto.CreateCommentDTO) (*models.Comment, error)
	Update(ctx context.Context, titleID, reviewID, commentID int64, in dto.UpdateCommentDTO) (*models.Comment, error)
	Delete(ctx context.Context, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

// requireReview resolves the review and verifies it belongs to the title in
// the path, so mismatched title/review id pairs 404.
func (s *commentService) requireReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.reviewRepo.GetByID(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("review")
		}
		return err
	}
	return nil
}

func (s *commentService) ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByReview(ctx, reviewID, page, pageSize)
}

func (s *commentService) GetByID(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment")
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Create(ctx context.Context, titleID, reviewID int64, authorID string, in dto.CreateCommentDTO) (*models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     in.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, apperr.NotFound("review")
		}
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, reviewID, comment.ID)
}

func (s *commentService) Update(ctx context.Context, titleID, reviewID, commentID int64, in dto.UpdateCommentDTO) (*models.Comment, error) {
	comment, err := s.GetByID(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, reviewID, commentID)
}

func (s *commentService) Delete(ctx context.Context, titleID, reviewID, commentID int64) error {
	if _, err := s.GetByID(ctx, titleID, reviewID, commentID); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, commentID)
}
