package service

import (
	"errors"
	"strings"

	"smart-inventory-api/internal/apperr"
	"smart-inventory-api/internal/model"
	"smart-inventory-api/internal/repository"
	"smart-inventory-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// defaultPassword is assigned when an account is created without one; the
// user is expected to change it through the profile settings.
const defaultPassword = "default123"

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name"`
	Role     string `json:"role" validate:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

type UserService interface {
	// List returns every account; a non-empty email narrows to one match.
	List(email string) ([]model.UserResponse, error)
	Create(req *CreateUserRequest) (*model.UserResponse, error)
	Update(id uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error)
	// SetDisabled toggles an account without deleting its history.
	SetDisabled(id uuid.UUID, disabled bool) (*model.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(email string) ([]model.UserResponse, error) {
	if email != "" {
		user, err := s.userRepo.FindByEmail(email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []model.UserResponse{}, nil
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.Storage, "Server error while fetching users", err)
		}
		return []model.UserResponse{user.ToResponse()}, nil
	}

	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Server error while fetching users", err)
	}
	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, nil
}

func (s *userService) Create(req *CreateUserRequest) (*model.UserResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, apperr.New(apperr.Validation, err.Error())
	}

	role, ok := model.ParseRole(req.Role)
	if !ok {
		return nil, apperr.New(apperr.Validation, "Invalid role")
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, apperr.New(apperr.Conflict, "Email already exists")
	}

	user := &model.User{
		Email:    strings.TrimSpace(req.Email),
		FullName: req.FullName,
		Role:     role,
		Phone:    req.Phone,
	}
	if user.FullName == "" {
		user.FullName = "Unknown"
	}

	password := req.Password
	if password == "" {
		password = defaultPassword
	}
	if err := user.SetPassword(password); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to hash password", err)
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to add user", err)
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Update(id uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, apperr.New(apperr.Validation, err.Error())
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		return nil, apperr.Wrap(apperr.Storage, "Failed to look up user", err)
	}

	if !strings.EqualFold(req.Email, user.Email) {
		if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
			return nil, apperr.New(apperr.Conflict, "Email already exists")
		}
	}

	user.Email = strings.TrimSpace(req.Email)
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	user.Phone = req.Phone
	if req.Role != "" {
		role, ok := model.ParseRole(req.Role)
		if !ok {
			return nil, apperr.New(apperr.Validation, "Invalid role")
		}
		user.Role = role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to update user", err)
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) SetDisabled(id uuid.UUID, disabled bool) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		return nil, apperr.Wrap(apperr.Storage, "Failed to look up user", err)
	}

	user.IsDisabled = disabled
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to update user status", err)
	}

	resp := user.ToResponse()
	return &resp, nil
}
