package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/middleware/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// --- MOCKS ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

type MockNotifier struct {
	mock.Mock
	lastCode string
}

func (m *MockNotifier) SendConfirmationCode(ctx context.Context, toEmail, username, code string) error {
	m.lastCode = code
	args := m.Called(ctx, toEmail, username, code)
	return args.Error(0)
}

// --- SETUP ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:              "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:         time.Hour,
		ConfirmationCodeLength: 8,
	}
}

func newAuthService(repo *MockUserRepository, notifier *MockNotifier) AuthService {
	return NewAuthService(repo, notifier, testLogger(), testConfig())
}

// --- SIGNUP ---

func TestSignup_ReservedUsername(t *testing.T) {
	repo := new(MockUserRepository)
	notifier := new(MockNotifier)
	svc := newAuthService(repo, notifier)

	for _, username := range []string{"me", "ME", "Me"} {
		_, err := svc.Signup(context.Background(), username, "me@example.com")
		ve, ok := apperr.AsValidation(err)
		assert.True(t, ok, "expected validation error for %q", username)
		assert.Contains(t, ve.Fields, "username")
	}
	repo.AssertNotCalled(t, "Create")
}

func TestSignup_NewUser(t *testing.T) {
	repo := new(MockUserRepository)
	notifier := new(MockNotifier)
	svc := newAuthService(repo, notifier)

	repo.On("FindByUsernameAndEmail", mock.Anything, "newbie", "newbie@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	repo.On("FindByEmail", mock.Anything, "newbie@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	repo.On("FindByUsername", mock.Anything, "newbie").
		Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	notifier.On("SendConfirmationCode", mock.Anything, "newbie@example.com", "newbie", mock.Anything).Return(nil)

	user, err := svc.Signup(context.Background(), "newbie", "newbie@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "newbie", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)

	// the stored hash must verify against the delivered code
	assert.Len(t, notifier.lastCode, 8)
	assert.NotNil(t, user.ConfirmationCode)
	assert.NoError(t, auth.VerifyCode(*user.ConfirmationCode, notifier.lastCode))

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSignup_ExistingPairReissuesCode(t *testing.T) {
	repo := new(MockUserRepository)
	notifier := new(MockNotifier)
	svc := newAuthService(repo, notifier)

	existing := &models.User{ID: "id-1", Username: "regular", Email: "regular@example.com", Role: models.RoleUser}

	repo.On("FindByUsernameAndEmail", mock.Anything, "regular", "regular@example.com").
		Return(existing, nil)
	repo.On("FindByEmail", mock.Anything, "regular@example.com").Return(existing, nil)
	repo.On("FindByUsername", mock.Anything, "regular").Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)
	notifier.On("SendConfirmationCode", mock.Anything, "regular@example.com", "regular", mock.Anything).Return(nil)

	user, err := svc.Signup(context.Background(), "regular", "regular@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "id-1", user.ID)
	assert.NotNil(t, user.ConfirmationCode)

	// no second account was created
	repo.AssertNotCalled(t, "Create")
	repo.AssertExpectations(t)
}

func TestSignup_EmailBoundToOtherAccount(t *testing.T) {
	repo := new(MockUserRepository)
	notifier := new(MockNotifier)
	svc := newAuthService(repo, notifier)

	other := &models.User{ID: "other", Username: "someone", Email: "taken@example.com"}

	repo.On("FindByUsernameAndEmail", mock.Anything, "newbie", "taken@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	repo.On("FindByEmail", mock.Anything, "taken@example.com").Return(other, nil)

	_, err := svc.Signup(context.Background(), "newbie", "taken@example.com")
	ve, ok := apperr.AsValidation(err)
	assert.True(t, ok)
	assert.Contains(t, ve.Fields, "email")
	repo.AssertNotCalled(t, "Create")
}

func TestSignup_UsernameBoundToOtherAccount(t *testing.T) {
	repo := new(MockUserRepository)
	notifier := new(MockNotifier)
	svc := newAuthService(repo, notifier)

	other := &models.User{ID: "other", Username: "taken", Email: "other@example.com"}

	repo.On("FindByUsernameAndEmail", mock.Anything, "taken", "new@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	repo.On("FindByEmail", mock.Anything, "new@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	repo.On("FindByUsername", mock.Anything, "taken").Return(other, nil)

	_, err := svc.Signup(context.Background(), "taken", "new@example.com")
	ve, ok := apperr.AsValidation(err)
	assert.True(t, ok)
	assert.Contains(t, ve.Fields, "username")
}

// --- TOKEN ---

func TestToken_Success(t *testing.T) {
	repo := new(MockUserRepository)
	notifier := new(MockNotifier)
	svc := newAuthService(repo, notifier)

	hash, err := auth.HashCode("GOODCODE")
	assert.NoError(t, err)
	user := &models.User{ID: "id-1", Username: "regular", Role: models.RoleUser, ConfirmationCode: &hash}

	repo.On("FindByUsername", mock.Anything, "regular").Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	token, err := svc.Token(context.Background(), "regular", "GOODCODE")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// the code is consumed: the stored hash is cleared on exchange
	assert.Nil(t, user.ConfirmationCode)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "id-1", claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestToken_MismatchesAreIndistinguishable(t *testing.T) {
	repo := new(MockUserRepository)
	notifier := new(MockNotifier)
	svc := newAuthService(repo, notifier)

	hash, _ := auth.HashCode("GOODCODE")
	user := &models.User{ID: "id-1", Username: "regular", ConfirmationCode: &hash}

	repo.On("FindByUsername", mock.Anything, "regular").Return(user, nil)
	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, wrongCodeErr := svc.Token(context.Background(), "regular", "BADCODE")
	_, unknownUserErr := svc.Token(context.Background(), "ghost", "GOODCODE")

	assert.ErrorIs(t, wrongCodeErr, apperr.ErrNotFound)
	assert.ErrorIs(t, unknownUserErr, apperr.ErrNotFound)
}

func TestToken_CodeWorksExactlyOnce(t *testing.T) {
	repo := new(MockUserRepository)
	notifier := new(MockNotifier)
	svc := newAuthService(repo, notifier)

	hash, _ := auth.HashCode("GOODCODE")
	user := &models.User{ID: "id-1", Username: "regular", ConfirmationCode: &hash}

	repo.On("FindByUsername", mock.Anything, "regular").Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	_, err := svc.Token(context.Background(), "regular", "GOODCODE")
	assert.NoError(t, err)

	// replay with the same code fails now that it is cleared
	_, err = svc.Token(context.Background(), "regular", "GOODCODE")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newAuthService(new(MockUserRepository), new(MockNotifier))

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
