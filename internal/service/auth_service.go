package service

import (
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"strconv"
	"time"

	"smart-inventory-api/internal/apperr"
	"smart-inventory-api/internal/model"
	"smart-inventory-api/internal/repository"
	"smart-inventory-api/pkg/jwt"

	"gorm.io/gorm"
)

const (
	loginCodeTTL = 5 * time.Minute
	resetCodeTTL = 10 * time.Minute
)

// CodeSender emails verification codes. Satisfied by *mailer.Mailer.
type CodeSender interface {
	SendVerificationCode(to, fullName, code string, ttl time.Duration) error
}

type VerifyResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

// UpdateProfileRequest mirrors the profile settings form: phone and an
// optional password change.
type UpdateProfileRequest struct {
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type AuthService interface {
	// Login checks credentials and emails a six-digit verification code.
	Login(email, password string) (model.Role, error)
	// Verify consumes the code and issues a JWT.
	Verify(email, code string) (*VerifyResponse, error)
	ResendCode(email string) (model.Role, error)
	// SendPasswordResetCode starts the forgot-password flow.
	SendPasswordResetCode(email string) error
	GetProfile(email string) (*model.UserResponse, error)
	UpdateProfile(req *UpdateProfileRequest) error
}

type authService struct {
	userRepo repository.UserRepository
	logRepo  repository.SystemLogRepository
	codes    CodeSender
}

func NewAuthService(userRepo repository.UserRepository, logRepo repository.SystemLogRepository, codes CodeSender) AuthService {
	return &authService{userRepo: userRepo, logRepo: logRepo, codes: codes}
}

func (s *authService) Login(email, password string) (model.Role, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		s.logAttempt(email, model.LogStatusFailure)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.New(apperr.Validation, "Invalid email or password")
		}
		return "", apperr.Wrap(apperr.Storage, "Failed to look up user", err)
	}

	if user.IsDisabled {
		s.logAttempt(email, model.LogStatusFailure)
		return "", apperr.New(apperr.Forbidden, "Your account has been disabled. Contact administrator.")
	}

	if !user.CheckPassword(password) {
		s.logAttempt(email, model.LogStatusFailure)
		return "", apperr.New(apperr.Validation, "Invalid email or password")
	}

	s.logAttempt(email, model.LogStatusSuccess)

	if err := s.issueCode(user, loginCodeTTL); err != nil {
		return "", err
	}
	return user.Role, nil
}

func (s *authService) Verify(email, code string) (*VerifyResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.Validation, "User not found")
		}
		return nil, apperr.Wrap(apperr.Storage, "Failed to look up user", err)
	}

	if user.IsDisabled {
		return nil, apperr.New(apperr.Forbidden, "Your account has been disabled. Contact administrator.")
	}

	if user.VerificationCode == "" || user.VerificationCode != code ||
		user.CodeExpiry == nil || time.Now().After(*user.CodeExpiry) {
		return nil, apperr.New(apperr.Validation, "Invalid or expired code")
	}

	now := time.Now()
	user.IsVerified = true
	user.VerificationCode = ""
	user.CodeExpiry = nil
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to update user", err)
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, string(user.Role))
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to generate token", err)
	}

	return &VerifyResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) ResendCode(email string) (model.Role, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.New(apperr.Validation, "User not found")
		}
		return "", apperr.Wrap(apperr.Storage, "Failed to look up user", err)
	}

	if user.IsDisabled {
		return "", apperr.New(apperr.Forbidden, "Your account has been disabled. Contact administrator.")
	}

	if err := s.issueCode(user, loginCodeTTL); err != nil {
		return "", err
	}
	return user.Role, nil
}

func (s *authService) SendPasswordResetCode(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "No account found with that email.")
		}
		return apperr.Wrap(apperr.Storage, "Failed to look up user", err)
	}

	if user.IsDisabled {
		return apperr.New(apperr.Forbidden, "This account is disabled.")
	}

	return s.issueCode(user, resetCodeTTL)
}

func (s *authService) GetProfile(email string) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		return nil, apperr.Wrap(apperr.Storage, "Failed to look up user", err)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) UpdateProfile(req *UpdateProfileRequest) error {
	if req.Email == "" {
		return apperr.New(apperr.Validation, "Email is required")
	}

	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "User not found")
		}
		return apperr.Wrap(apperr.Storage, "Failed to look up user", err)
	}

	// Phone is only editable for managers.
	if user.Role == model.RoleManager && req.Phone != "" {
		user.Phone = req.Phone
	}

	if req.CurrentPassword != "" || req.NewPassword != "" || req.ConfirmPassword != "" {
		if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
			return apperr.New(apperr.Validation, "Please fill out all password fields")
		}
		if !user.CheckPassword(req.CurrentPassword) {
			return apperr.New(apperr.Validation, "Current password is incorrect")
		}
		if req.NewPassword != req.ConfirmPassword {
			return apperr.New(apperr.Validation, "New password and confirmation do not match")
		}
		if err := user.SetPassword(req.NewPassword); err != nil {
			return apperr.Wrap(apperr.Storage, "Failed to hash password", err)
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return apperr.Wrap(apperr.Storage, "Failed to update profile", err)
	}
	return nil
}

// issueCode persists a fresh verification code, then emails it
// best-effort.
func (s *authService) issueCode(user *model.User, ttl time.Duration) error {
	code := generateCode()
	expiry := time.Now().Add(ttl)
	user.VerificationCode = code
	user.CodeExpiry = &expiry
	if err := s.userRepo.Update(user); err != nil {
		return apperr.Wrap(apperr.Storage, "Failed to save verification code", err)
	}

	if s.codes != nil {
		go func(to, name string) {
			if err := s.codes.SendVerificationCode(to, name, code, ttl); err != nil {
				log.Println("auth: failed to send verification code:", err)
			}
		}(user.Email, user.FullName)
	}
	return nil
}

func (s *authService) logAttempt(email, status string) {
	if err := s.logRepo.Record(email, "login", status); err != nil {
		log.Println("auth: failed to write system log:", err)
	}
}

// generateCode returns a random six-digit code.
func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "000000"
	}
	return strconv.FormatInt(n.Int64()+100000, 10)
}
