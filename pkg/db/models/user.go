package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/enums"
)

// User is a storefront account. Credentials are managed by the auth provider
// except for the locally stored password hash used by the reset flow.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	Name         string     `gorm:"column:name;not null"`
	PasswordHash *string    `gorm:"column:password_hash"`
	Role         enums.Role `gorm:"column:role;type:text;not null;default:'customer'"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
