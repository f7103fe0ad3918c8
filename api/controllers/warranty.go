package controllers

import (
	"net/http"

	"github.com/repairdepot/storefront/api/responses"
	"github.com/repairdepot/storefront/api/validators"
	"github.com/repairdepot/storefront/internal/warranty"
	"github.com/repairdepot/storefront/pkg/logger"
)

type warrantyClaimRequest struct {
	OrderNumber string `json:"order_number" validate:"required,max=32"`
	Email       string `json:"email" validate:"required,email"`
	ProductSKU  string `json:"product_sku" validate:"required,sku"`
	Reason      string `json:"reason" validate:"required,max=64"`
	Description string `json:"description" validate:"required,max=2000"`
}

func WarrantySubmit(svc warranty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload warrantyClaimRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		claim, err := svc.Submit(r.Context(), warranty.SubmitInput{
			OrderNumber: payload.OrderNumber,
			Email:       payload.Email,
			ProductSKU:  payload.ProductSKU,
			Reason:      payload.Reason,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, claim)
	}
}

func WarrantyStatus(svc warranty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := pathParam(r, "claimNumber")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		claim, err := svc.Status(r.Context(), number, r.URL.Query().Get("email"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, claim)
	}
}
