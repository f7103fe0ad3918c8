package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/enums"
)

// RepairTicket is a booked repair.
type RepairTicket struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TicketNumber     string             `gorm:"column:ticket_number;not null;uniqueIndex"`
	DeviceBrand      string             `gorm:"column:device_brand;not null"`
	DeviceModel      string             `gorm:"column:device_model;not null"`
	IssueCategory    string             `gorm:"column:issue_category;not null"`
	IssueDescription string             `gorm:"column:issue_description;not null"`
	ContactName      string             `gorm:"column:contact_name;not null"`
	ContactEmail     string             `gorm:"column:contact_email;not null"`
	ContactPhone     string             `gorm:"column:contact_phone;not null"`
	ServiceType      enums.ServiceType  `gorm:"column:service_type;type:text;not null"`
	StoreID          *uuid.UUID         `gorm:"column:store_id;type:uuid"`
	PreferredDate    time.Time          `gorm:"column:preferred_date;not null"`
	Status           enums.RepairStatus `gorm:"column:status;type:text;not null;default:'received'"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
