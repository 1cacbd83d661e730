package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	"github.com/angelmondragon/sauce-pos/pkg/enums"
)

// ProductDTO is the API shape of a catalog product.
type ProductDTO struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Owner      string          `json:"owner"`
	Shelf      bool            `json:"shelf"`
	SauceType  enums.SauceType `json:"sauce_type"`
	SauceLabel string          `json:"sauce_label,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreateProductInput carries the fields accepted when creating a product.
type CreateProductInput struct {
	Name      string
	Price     decimal.Decimal
	Owner     string
	Shelf     bool
	SauceType string
}

// UpdateProductInput carries optional replacements; nil fields are left as-is.
type UpdateProductInput struct {
	Name      *string
	Price     *decimal.Decimal
	Owner     *string
	Shelf     *bool
	SauceType *string
}

// FromModel maps the persisted product into a DTO.
func FromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:        m.ID,
		Name:      m.Name,
		Price:     m.Price,
		Owner:     m.Owner,
		Shelf:     m.Shelf,
		SauceType: m.SauceType,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.SauceType.IsSauce() {
		dto.SauceLabel = m.SauceType.Label()
	}
	return dto
}
