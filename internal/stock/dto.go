package stock

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	"github.com/angelmondragon/sauce-pos/pkg/enums"
)

type StoreStockDTO struct {
	StoreID     uuid.UUID `json:"store_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    int       `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SauceStockDTO struct {
	ID        uuid.UUID       `json:"id"`
	SauceType enums.SauceType `json:"sauce_type"`
	Label     string          `json:"label"`
	Quantity  int             `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MaxQuantity bounds a single adjustment or sale line so summed demand stays
// well inside int range.
const MaxQuantity = 10000

// AdjustInput describes a signed change to one store's shelf quantity.
type AdjustInput struct {
	StoreID   uuid.UUID
	ProductID uuid.UUID
	Delta     int
}

func storeStockFromModel(m *models.StoreStock) StoreStockDTO {
	dto := StoreStockDTO{
		StoreID:   m.StoreID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Product != nil {
		dto.ProductName = m.Product.Name
	}
	return dto
}

func sauceStockFromModel(m *models.SauceStock) SauceStockDTO {
	return SauceStockDTO{
		ID:        m.ID,
		SauceType: m.SauceType,
		Label:     m.SauceType.Label(),
		Quantity:  m.Quantity,
		UpdatedAt: m.UpdatedAt,
	}
}
