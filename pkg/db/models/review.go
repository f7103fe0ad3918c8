package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating of a product.
type Review struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	AuthorName string    `gorm:"column:author_name;not null"`
	Rating     int       `gorm:"column:rating;not null"`
	Title      string    `gorm:"column:title;not null"`
	Body       string    `gorm:"column:body;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
