package controllers

import (
	"net/http"
	"time"

	"github.com/repairdepot/storefront/api/responses"
	"github.com/repairdepot/storefront/api/validators"
	"github.com/repairdepot/storefront/internal/orders"
	"github.com/repairdepot/storefront/pkg/enums"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
	"github.com/repairdepot/storefront/pkg/logger"
)

type trackOrderRequest struct {
	OrderNumber string `json:"order_number" validate:"required,max=32"`
	Email       string `json:"email" validate:"required,email"`
}

// OrderTrack looks an order up by number and email. Mount behind the
// tracking rate limit.
func OrderTrack(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload trackOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Track(r.Context(), payload.OrderNumber, payload.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type orderStatusRequest struct {
	Status            string     `json:"status" validate:"required"`
	Carrier           *string    `json:"carrier,omitempty" validate:"omitempty,max=64"`
	TrackingNumber    *string    `json:"tracking_number,omitempty" validate:"omitempty,max=128"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

func AdminOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		number, err := pathParam(r, "orderNumber")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status"))
			return
		}

		result, err := svc.UpdateStatus(r.Context(), orders.UpdateStatusInput{
			OrderNumber:       number,
			Status:            status,
			Carrier:           payload.Carrier,
			TrackingNumber:    payload.TrackingNumber,
			EstimatedDelivery: payload.EstimatedDelivery,
			ActorUserID:       actorID,
			ActorRole:         roleFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
