package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"crowdfund/internal/models"
	"crowdfund/internal/repository"
	"crowdfund/pkg/logger"
)

// RegisterInput is the registration payload. Password is write-only.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=1,max=150"`
	Password  string `json:"password" validate:"required,max=128"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type UserService struct {
	userRepo repository.UserRepository
	hashCost int
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo, hashCost: bcrypt.DefaultCost}
}

// maxPasswordBytes is the most bcrypt will hash.
const maxPasswordBytes = 72

const usernameTaken = "A user with that username already exists."

// Register validates input, hashes the password and stores the user.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	errs := &ValidationError{}
	check(input, errs)
	if len(input.Password) > maxPasswordBytes {
		errs.Add("password", fmt.Sprintf("Ensure this field has no more than %d bytes.", maxPasswordBytes))
	}
	if errs.Err() == nil {
		taken, err := s.userRepo.ExistsByUsername(ctx, input.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			errs.Add("username", usernameTaken)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:  input.Username,
		Password:  string(hashed),
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// a concurrent registration may have taken the name since the check
		if taken, checkErr := s.userRepo.ExistsByUsername(ctx, input.Username); checkErr == nil && taken {
			return nil, Invalid("username", usernameTaken)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindAll(ctx)
}
