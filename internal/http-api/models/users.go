package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values. Moderators can manage any review or comment,
// admins additionally manage users and the catalog.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string  `gorm:"uniqueIndex;not null" json:"username"`
	Email     string  `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	Bio       string  `gorm:"type:text" json:"bio,omitempty"`
	Role      string  `gorm:"default:'user';not null" json:"role"`
	IsStaff   bool    `gorm:"default:false;not null" json:"-"` // Django-style staff flag, admin-equivalent
	// Bcrypt hash of the last issued confirmation code. Nil when no code is
	// outstanding; cleared after a successful token exchange.
	ConfirmationCode *string   `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsAdminEquivalent reports whether the user holds admin rights,
// either through the admin role or the staff flag.
func (user *User) IsAdminEquivalent() bool {
	return user.Role == RoleAdmin || user.IsStaff
}

func (User) TableName() string {
	return "users"
}
