package handler

import (
	"context"
	"net/http"
	"testing"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/policy"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewService) GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*models.Review, error) {
	args := m.Called(ctx, titleID, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, titleID, reviewID int64, in dto.UpdateReviewDTO) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, titleID, reviewID int64) error {
	args := m.Called(ctx, titleID, reviewID)
	return args.Error(0)
}

func setupReviewRouter(svc *MockReviewService, p policy.Principal) *gin.Engine {
	r := gin.New()
	g := r.Group("/titles")
	g.Use(withPrincipal(p))
	NewReviewHandler(svc).RegisterRoutes(g)
	return r
}

func ownedReview() *models.Review {
	return &models.Review{
		ID:       42,
		TitleID:  1,
		AuthorID: "owner",
		Text:     "fine",
		Score:    7,
		Author:   models.User{ID: "owner", Username: "owner"},
	}
}

func TestReviewCreateEndpoint_AnonymousForbidden(t *testing.T) {
	svc := new(MockReviewService)

	w := performRequest(setupReviewRouter(svc, policy.Anonymous), http.MethodPost, "/titles/1/reviews",
		[]byte(`{"text":"fine","score":7}`))

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "Create")
}

func TestReviewCreateEndpoint_AuthenticatedSucceeds(t *testing.T) {
	svc := new(MockReviewService)
	user := policy.Principal{ID: "owner", Role: models.RoleUser, Authenticated: true}

	svc.On("Create", mock.Anything, int64(1), "owner", dto.CreateReviewDTO{Text: "fine", Score: 7}).
		Return(ownedReview(), nil)

	w := performRequest(setupReviewRouter(svc, user), http.MethodPost, "/titles/1/reviews",
		[]byte(`{"text":"fine","score":7}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"author":"owner"`)
	svc.AssertExpectations(t)
}

func TestReviewCreateEndpoint_ScoreOutOfRange(t *testing.T) {
	svc := new(MockReviewService)
	user := policy.Principal{ID: "owner", Role: models.RoleUser, Authenticated: true}

	w := performRequest(setupReviewRouter(svc, user), http.MethodPost, "/titles/1/reviews",
		[]byte(`{"text":"fine","score":11}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create")
}

func TestReviewDeleteEndpoint_OtherUserForbidden(t *testing.T) {
	svc := new(MockReviewService)
	other := policy.Principal{ID: "other", Role: models.RoleUser, Authenticated: true}

	svc.On("GetByID", mock.Anything, int64(1), int64(42)).Return(ownedReview(), nil)

	w := performRequest(setupReviewRouter(svc, other), http.MethodDelete, "/titles/1/reviews/42", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "Delete")
}

func TestReviewDeleteEndpoint_ModeratorSucceeds(t *testing.T) {
	svc := new(MockReviewService)
	moderator := policy.Principal{ID: "m", Role: models.RoleModerator, Authenticated: true}

	svc.On("GetByID", mock.Anything, int64(1), int64(42)).Return(ownedReview(), nil)
	svc.On("Delete", mock.Anything, int64(1), int64(42)).Return(nil)

	w := performRequest(setupReviewRouter(svc, moderator), http.MethodDelete, "/titles/1/reviews/42", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestReviewDeleteEndpoint_AuthorSucceeds(t *testing.T) {
	svc := new(MockReviewService)
	owner := policy.Principal{ID: "owner", Role: models.RoleUser, Authenticated: true}

	svc.On("GetByID", mock.Anything, int64(1), int64(42)).Return(ownedReview(), nil)
	svc.On("Delete", mock.Anything, int64(1), int64(42)).Return(nil)

	w := performRequest(setupReviewRouter(svc, owner), http.MethodDelete, "/titles/1/reviews/42", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReviewGetEndpoint_BadTitleID(t *testing.T) {
	svc := new(MockReviewService)

	w := performRequest(setupReviewRouter(svc, policy.Anonymous), http.MethodGet, "/titles/abc/reviews", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
