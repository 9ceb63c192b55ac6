package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an account in any of the three roles. A single table with
// a role tag replaces per-role collections so lookups never fan out.
type User struct {
	BaseModel
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	FullName string `gorm:"type:varchar(255);default:'Unknown'" json:"full_name"`
	Role     Role   `gorm:"type:varchar(30);not null;index" json:"role"`
	Phone    string `gorm:"type:varchar(30)" json:"phone"`

	// Login verification flow
	VerificationCode string     `gorm:"type:varchar(10)" json:"-"`
	CodeExpiry       *time.Time `json:"-"`
	IsVerified       bool       `gorm:"default:false" json:"is_verified"`
	IsDisabled       bool       `gorm:"default:false" json:"is_disabled"`
	LastLogin        *time.Time `json:"last_login"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	FullName   string     `json:"full_name"`
	Role       Role       `json:"role"`
	Phone      string     `json:"phone"`
	IsVerified bool       `json:"is_verified"`
	IsDisabled bool       `json:"is_disabled"`
	LastLogin  *time.Time `json:"last_login"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       u.Role,
		Phone:      u.Phone,
		IsVerified: u.IsVerified,
		IsDisabled: u.IsDisabled,
		LastLogin:  u.LastLogin,
	}
}
