package expenses

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
)

type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CategoryInput struct {
	Name        string
	Description string
}

type ExpenseDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Category    *CategoryDTO    `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpenseInput is used for both create and full update. A nil Date means now
// on create and unchanged on update; a nil CategoryID leaves the expense
// uncategorised.
type ExpenseInput struct {
	Name        string
	Description string
	Amount      decimal.Decimal
	Date        *time.Time
	CategoryID  *uuid.UUID
}

func categoryFromModel(m *models.ExpenseCategory) *CategoryDTO {
	if m == nil {
		return nil
	}
	dto := &CategoryDTO{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Description != nil {
		dto.Description = *m.Description
	}
	return dto
}

func expenseFromModel(m *models.Expense) *ExpenseDTO {
	if m == nil {
		return nil
	}
	return &ExpenseDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Amount:      m.Amount,
		Date:        m.Date,
		CategoryID:  m.CategoryID,
		Category:    categoryFromModel(m.Category),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
