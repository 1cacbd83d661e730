package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sauce-pos/pkg/enums"
)

// SauceStock is the shared, store independent inventory of one sauce.
type SauceStock struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SauceType enums.SauceType `gorm:"column:sauce_type;type:sauce_type;not null;uniqueIndex"`
	Quantity  int             `gorm:"column:quantity;not null;default:0;check:sauce_stocks_quantity_non_negative,quantity >= 0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *SauceStock) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
