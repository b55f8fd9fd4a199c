package service

import (
	"context"
	"errors"
	"strings"

	"reviewhub/internal/http-api/apperr"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"

	"gorm.io/gorm"
)

type UserService interface {
	List(ctx context.Context, page, pageSize int) ([]models.User, int64, error)
	Create(ctx context.Context, in dto.CreateUserDTO) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Update applies a partial update. The role field is honored only when
	// allowRole is set (admin caller); others have it silently ignored.
	Update(ctx context.Context, username string, in dto.UpdateUserDTO, allowRole bool) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, page, pageSize)
}

func (s *userService) Create(ctx context.Context, in dto.CreateUserDTO) (*models.User, error) {
	if strings.EqualFold(in.Username, "me") {
		return nil, apperr.NewValidation("username", "username 'me' is reserved")
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.NewValidation("username", "a user with that username or email already exists")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, username string, in dto.UpdateUserDTO, allowRole bool) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		if strings.EqualFold(*in.Username, "me") {
			return nil, apperr.NewValidation("username", "username 'me' is reserved")
		}
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil && allowRole {
		user.Role = *in.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.NewValidation("username", "a user with that username or email already exists")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	if err := s.userRepo.Delete(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user")
		}
		return err
	}
	return nil
}
