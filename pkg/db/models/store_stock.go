package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreStock is the on-shelf quantity of one product at one store.
type StoreStock struct {
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	Quantity  int       `gorm:"column:quantity;not null;default:0;check:store_stocks_quantity_non_negative,quantity >= 0"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
