package entities

import (
	"time"

	"gorm.io/gorm"
)

// User is a credential record for the identity boundary. The engine itself
// only ever sees the opaque UserID string, which doubles as the key of the
// user's library and profile documents.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       string         `gorm:"uniqueIndex;size:64" json:"user_id"`
	Username     string         `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}
