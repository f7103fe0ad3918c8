package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the browse tree.
type Category struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ParentID  *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	Name      string     `gorm:"column:name;not null"`
	Slug      string     `gorm:"column:slug;not null;uniqueIndex"`
	Position  int        `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// PhoneModel is a device the shop sells parts for or repairs.
type PhoneModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Brand     string    `gorm:"column:brand;not null"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
