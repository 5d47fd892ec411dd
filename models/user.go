package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RolePIN             UserRole = "pin"
	RoleCSR             UserRole = "csr_rep"
	RolePlatformManager UserRole = "platform_manager"
	RoleAdmin           UserRole = "admin"
)

// AllRoles lists every role in display order.
var AllRoles = []UserRole{RolePIN, RoleCSR, RolePlatformManager, RoleAdmin}

// ParseRole maps a role label to its canonical value. Case, surrounding space,
// inner spaces and hyphens are ignored, so "CSR Rep" and "csr-rep" both parse.
func ParseRole(raw string) (UserRole, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch key {
	case "pin":
		return RolePIN, nil
	case "csr_rep", "csr":
		return RoleCSR, nil
	case "platform_manager", "pm":
		return RolePlatformManager, nil
	case "admin":
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unrecognized role %q", raw)
}

// Valid reports whether r is one of the four known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RolePIN, RoleCSR, RolePlatformManager, RoleAdmin:
		return true
	}
	return false
}

// Label is the human-readable role name.
func (r UserRole) Label() string {
	switch r {
	case RolePIN:
		return "PIN"
	case RoleCSR:
		return "CSR Rep"
	case RolePlatformManager:
		return "Platform Manager"
	case RoleAdmin:
		return "Admin"
	}
	return string(r)
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:100;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole  `json:"role" gorm:"type:varchar(32);not null;check:role IN ('pin','csr_rep','platform_manager','admin')"`
	Phone        string    `json:"phone" gorm:"size:32"`
	Department   string    `json:"department" gorm:"size:100"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RolePIN
	}
	if !u.Role.Valid() {
		return fmt.Errorf("invalid role %q", u.Role)
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsCSR() bool {
	return u.Role == RoleCSR
}

// IsManager is true for platform managers and admins.
func (u *User) IsManager() bool {
	return u.Role == RolePlatformManager || u.Role == RoleAdmin
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       UserRole  `json:"role"`
	RoleLabel  string    `json:"role_label"`
	Phone      string    `json:"phone,omitempty"`
	Department string    `json:"department,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		RoleLabel:  u.Role.Label(),
		Phone:      u.Phone,
		Department: u.Department,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserCreate is the admin payload for creating an account.
type UserCreate struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
}

// UserUpdate is a partial patch; nil fields are left untouched.
type UserUpdate struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Role       *string `json:"role"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	IsActive   *bool   `json:"is_active"`
}

type PasswordReset struct {
	Password string `json:"password"`
}
