package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sauce-pos/api/responses"
	"github.com/angelmondragon/sauce-pos/api/validators"
	productsvc "github.com/angelmondragon/sauce-pos/internal/products"
	pkgerrors "github.com/angelmondragon/sauce-pos/pkg/errors"
	"github.com/angelmondragon/sauce-pos/pkg/logger"
)

type createProductRequest struct {
	Name      string           `json:"name" validate:"required,max=200"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
	Owner     string           `json:"owner" validate:"max=200"`
	Shelf     bool             `json:"shelf"`
	SauceType string           `json:"sauce_type"`
}

type updateProductRequest struct {
	Name      *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Owner     *string          `json:"owner,omitempty" validate:"omitempty,max=200"`
	Shelf     *bool            `json:"shelf,omitempty"`
	SauceType *string          `json:"sauce_type,omitempty"`
}

func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		products, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Create(r.Context(), productsvc.CreateProductInput{
			Name:      payload.Name,
			Price:     *payload.Price,
			Owner:     payload.Owner,
			Shelf:     payload.Shelf,
			SauceType: payload.SauceType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Update(r.Context(), productID, productsvc.UpdateProductInput{
			Name:      payload.Name,
			Price:     payload.Price,
			Owner:     payload.Owner,
			Shelf:     payload.Shelf,
			SauceType: payload.SauceType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
