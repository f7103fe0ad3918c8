package stores

import (
	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/db/models"
)

// Address is the postal address of a location.
type Address struct {
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
}

// StoreDTO is the public store view.
type StoreDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address Address   `json:"address"`
	Phone   string    `json:"phone"`
	Hours   string    `json:"hours"`
	Lat     float64   `json:"lat"`
	Lng     float64   `json:"lng"`
}

// FromModel maps a store row.
func FromModel(m *models.Store) StoreDTO {
	return StoreDTO{
		ID:   m.ID,
		Name: m.Name,
		Address: Address{
			Line1:      m.Line1,
			Line2:      m.Line2,
			City:       m.City,
			State:      m.State,
			PostalCode: m.PostalCode,
		},
		Phone: m.Phone,
		Hours: m.Hours,
		Lat:   m.Lat,
		Lng:   m.Lng,
	}
}
