package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/sauce-pos/api/responses"
	"github.com/angelmondragon/sauce-pos/api/validators"
	"github.com/angelmondragon/sauce-pos/internal/sales"
	"github.com/angelmondragon/sauce-pos/pkg/logger"
)

type createSaleRequest struct {
	Items []saleItemRequest `json:"items" validate:"required,min=1,dive"`
}

type saleItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	Quantity  int        `json:"quantity" validate:"required,min=1,max=10000"`
	StoreID   *uuid.UUID `json:"store_id,omitempty"`
}

func (r createSaleRequest) toInput() sales.CreateSaleInput {
	items := make([]sales.SaleItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, sales.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			StoreID:   item.StoreID,
		})
	}
	return sales.CreateSaleInput{Items: items}
}

// SaleCreate records a sale. Either every line is committed with its stock
// decrements or nothing is.
func SaleCreate(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}

func SaleList(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := validators.ParseQueryDate(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), sales.ListFilter{Start: start, End: end})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func SaleGet(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := validators.ParseURLUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.Get(r.Context(), saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}
