package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/sauce-pos/pkg/enums"
)

// Product is a sellable catalog item. Shelf products are counted per store
// through StoreStock; sauce-bearing products draw from SauceStock instead.
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Owner     string          `gorm:"column:owner;not null;default:''"`
	Shelf     bool            `gorm:"column:shelf;not null;default:false"`
	SauceType enums.SauceType `gorm:"column:sauce_type;type:sauce_type;not null;default:'NONE'"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.SauceType == "" {
		p.SauceType = enums.SauceTypeNone
	}
	return nil
}

// TracksSauce reports whether selling the product consumes sauce stock.
func (p Product) TracksSauce() bool {
	return !p.Shelf && p.SauceType.IsSauce()
}
