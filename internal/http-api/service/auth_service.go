package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/middleware/auth"
	"reviewhub/internal/pkg/notify"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the identity carried inside an access token.
type Claims struct {
	UserID   string
	Username string
	Role     string
	IsStaff  bool
}

type AuthService interface {
	// Signup registers a user or re-issues a code for a known
	// (username, email) pair and delivers the code by email.
	Signup(ctx context.Context, username, email string) (*models.User, error)
	// Token exchanges a (username, confirmation_code) pair for a signed
	// access token. Any mismatch is an indistinguishable not-found.
	Token(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo   repository.UserRepository
	notifier   notify.Notifier
	logger     *slog.Logger
	jwtSecret  string
	tokenTTL   time.Duration
	codeLength int
}

func NewAuthService(
	userRepo repository.UserRepository,
	notifier notify.Notifier,
	logger *slog.Logger,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		notifier:   notifier,
		logger:     logger,
		jwtSecret:  cfg.JWTSecret,
		tokenTTL:   cfg.AccessTokenTTL,
		codeLength: cfg.ConfirmationCodeLength,
	}
}

// Signup is idempotent for a pair already bound to one account: the same
// record gets a fresh code. A username or email bound to a different
// account is a validation failure.
func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if strings.EqualFold(username, "me") {
		return nil, apperr.NewValidation("username", "username 'me' is reserved")
	}

	// The user may have been created by an admin, or wants a new code,
	// so try to find the exact pair first.
	user, err := s.userRepo.FindByUsernameAndEmail(ctx, username, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if byEmail, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		if user == nil || byEmail.ID != user.ID {
			return nil, apperr.NewValidation("email", "a user with that email already exists")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if byUsername, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		if user == nil || byUsername.ID != user.ID {
			return nil, apperr.NewValidation("username", "a user with that username already exists")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	code, err := auth.GenerateConfirmationCode(s.codeLength)
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}

	if user == nil {
		user = &models.User{
			Username:         username,
			Email:            email,
			Role:             models.RoleUser,
			ConfirmationCode: &hash,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			// the uniqueness constraints backstop the checks above
			if repository.IsUniqueViolation(err) {
				return nil, apperr.NewValidation("username", "a user with that username or email already exists")
			}
			return nil, err
		}
	} else {
		user.ConfirmationCode = &hash
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	if err := s.notifier.SendConfirmationCode(ctx, user.Email, user.Username, code); err != nil {
		return nil, fmt.Errorf("deliver confirmation code: %w", err)
	}

	s.logger.Info("confirmation code issued", slog.String("username", user.Username))
	return user, nil
}

// Token never distinguishes unknown users from wrong codes. The stored code
// is cleared after a successful exchange, so a code works exactly once.
func (s *authService) Token(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.NotFound("user")
		}
		return "", err
	}

	if user.ConfirmationCode == nil {
		return "", apperr.NotFound("user")
	}
	if err := auth.VerifyCode(*user.ConfirmationCode, code); err != nil {
		return "", apperr.NotFound("user")
	}

	user.ConfirmationCode = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"is_staff": user.IsStaff,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
		"type":     "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	if v, ok := mapClaims["user_id"].(string); ok {
		claims.UserID = v
	}
	if v, ok := mapClaims["username"].(string); ok {
		claims.Username = v
	}
	if v, ok := mapClaims["role"].(string); ok {
		claims.Role = v
	}
	if v, ok := mapClaims["is_staff"].(bool); ok {
		claims.IsStaff = v
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
