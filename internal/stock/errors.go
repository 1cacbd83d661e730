package stock

import (
	"fmt"

	"github.com/angelmondragon/sauce-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/sauce-pos/pkg/errors"
	"github.com/google/uuid"
)

const (
	KindShelf = "shelf"
	KindSauce = "sauce"
)

// ShortageDetails is attached to every insufficient stock error.
type ShortageDetails struct {
	Kind       string          `json:"kind"`
	StoreID    *uuid.UUID      `json:"store_id,omitempty"`
	ProductID  *uuid.UUID      `json:"product_id,omitempty"`
	Product    string          `json:"product,omitempty"`
	SauceType  enums.SauceType `json:"sauce_type,omitempty"`
	SauceLabel string          `json:"sauce_label,omitempty"`
	Available  int             `json:"available"`
	Requested  int             `json:"requested"`
}

// ErrInsufficientShelf reports that a store does not hold enough of a product.
func ErrInsufficientShelf(storeID, productID uuid.UUID, productName string, available, requested int) *pkgerrors.Error {
	return pkgerrors.New(
		pkgerrors.CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for %s: %d available, %d requested", productName, available, requested),
	).WithDetails(ShortageDetails{
		Kind:      KindShelf,
		StoreID:   &storeID,
		ProductID: &productID,
		Product:   productName,
		Available: available,
		Requested: requested,
	})
}

// ErrInsufficientSauce reports that the shared sauce inventory cannot cover
// the request. The message carries the localized sauce name.
func ErrInsufficientSauce(sauce enums.SauceType, available, requested int) *pkgerrors.Error {
	return pkgerrors.New(
		pkgerrors.CodeInsufficientStock,
		fmt.Sprintf("%sไม่เพียงพอ (insufficient %s sauce: %d available, %d requested)", sauce.Label(), sauce, available, requested),
	).WithDetails(ShortageDetails{
		Kind:       KindSauce,
		SauceType:  sauce,
		SauceLabel: sauce.Label(),
		Available:  available,
		Requested:  requested,
	})
}

// ShortageKind returns the stock kind of an insufficient stock error, or ""
// when err is not one.
func ShortageKind(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		return ""
	}
	if details, ok := typed.Details().(ShortageDetails); ok {
		return details.Kind
	}
	return ""
}
