package controllers

import (
	"net/http"

	"github.com/repairdepot/storefront/api/responses"
	"github.com/repairdepot/storefront/api/validators"
	"github.com/repairdepot/storefront/internal/repairs"
	"github.com/repairdepot/storefront/pkg/enums"
	"github.com/repairdepot/storefront/pkg/logger"
)

// repairRequest carries no validate tags so the wizard's per-step messages
// reach the client.
type repairRequest struct {
	DeviceBrand      string            `json:"device_brand"`
	DeviceModel      string            `json:"device_model"`
	IssueCategory    string            `json:"issue_category"`
	IssueDescription string            `json:"issue_description"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	ServiceType      enums.ServiceType `json:"service_type"`
	StoreID          string            `json:"store_id,omitempty"`
	PreferredDate    string            `json:"preferred_date"`
}

// RepairCreate books a repair. The wizard steps are validated again here.
func RepairCreate(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload repairRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ticket, err := svc.Create(r.Context(), repairs.Form(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ticket)
	}
}

func RepairTrack(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := pathParam(r, "ticketNumber")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ticket, err := svc.Track(r.Context(), number, r.URL.Query().Get("email"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ticket)
	}
}
