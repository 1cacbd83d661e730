package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
)

// SaleItemInput is one requested line. StoreID is optional; shelf stock is
// only checked and decremented for items that name a store.
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	StoreID   *uuid.UUID
}

type CreateSaleInput struct {
	Items []SaleItemInput
}

type SaleDTO struct {
	ID        uuid.UUID       `json:"id"`
	StoreID   uuid.UUID       `json:"store_id"`
	StoreName string          `json:"store_name,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Date      time.Time       `json:"date"`
	Items     []SaleLineDTO   `json:"items"`
}

type SaleLineDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Owner       string          `json:"owner,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// FromModel maps a persisted sale into a DTO.
func FromModel(m *models.Sale) *SaleDTO {
	if m == nil {
		return nil
	}
	dto := &SaleDTO{
		ID:      m.ID,
		StoreID: m.StoreID,
		Total:   m.Total,
		Date:    m.Date,
		Items:   make([]SaleLineDTO, 0, len(m.Items)),
	}
	if m.Store != nil {
		dto.StoreName = m.Store.Name
	}
	for _, line := range m.Items {
		item := SaleLineDTO{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Subtotal:  line.Subtotal(),
		}
		if line.Product != nil {
			item.ProductName = line.Product.Name
			item.Owner = line.Product.Owner
		}
		dto.Items = append(dto.Items, item)
	}
	return dto
}
