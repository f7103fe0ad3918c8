package repairs

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
)

// Repository persists repair tickets.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) TicketRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a ticket.
func (r *Repository) Create(ctx context.Context, ticket *models.RepairTicket) error {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(ticket).Error
}

// FindByNumberAndEmail returns the ticket only when the contact email matches.
func (r *Repository) FindByNumberAndEmail(ctx context.Context, ticketNumber, email string) (*models.RepairTicket, error) {
	var ticket models.RepairTicket
	err := r.db.WithContext(ctx).
		Where("UPPER(ticket_number) = ?", strings.ToUpper(strings.TrimSpace(ticketNumber))).
		Where("LOWER(contact_email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}
