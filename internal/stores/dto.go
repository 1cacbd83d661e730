package stores

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	"github.com/angelmondragon/sauce-pos/pkg/enums"
)

// StoreDTO exposes a store and its shelf stock.
type StoreDTO struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Stock     []StockLineDTO `json:"stock"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// StockLineDTO is one product on the store shelf.
type StockLineDTO struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Owner        string          `json:"owner"`
	SauceType    enums.SauceType `json:"sauce_type"`
	Quantity     int             `json:"quantity"`
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	dto := &StoreDTO{
		ID:        m.ID,
		Name:      m.Name,
		Stock:     make([]StockLineDTO, 0, len(m.StoreStocks)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, row := range m.StoreStocks {
		line := StockLineDTO{ProductID: row.ProductID, Quantity: row.Quantity}
		if row.Product != nil {
			line.ProductName = row.Product.Name
			line.ProductPrice = row.Product.Price
			line.Owner = row.Product.Owner
			line.SauceType = row.Product.SauceType
		}
		dto.Stock = append(dto.Stock, line)
	}
	return dto
}
