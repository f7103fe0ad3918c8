package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is a physical repair location.
type Store struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	Line1      string    `gorm:"column:line1;not null"`
	Line2      *string   `gorm:"column:line2"`
	City       string    `gorm:"column:city;not null"`
	State      string    `gorm:"column:state;not null"`
	PostalCode string    `gorm:"column:postal_code;not null"`
	Phone      string    `gorm:"column:phone;not null"`
	Hours      string    `gorm:"column:hours;not null;default:''"`
	Lat        float64   `gorm:"column:lat;not null"`
	Lng        float64   `gorm:"column:lng;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
