package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sauce-pos/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type expenseRepository interface {
	List(ctx context.Context, filter ListFilter) ([]models.Expense, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	Create(ctx context.Context, expense *models.Expense) error
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.ExpenseCategory, error)
}

// Service records operating expenses.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]ExpenseDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ExpenseDTO, error)
	Create(ctx context.Context, input ExpenseInput) (*ExpenseDTO, error)
	Update(ctx context.Context, id uuid.UUID, input ExpenseInput) (*ExpenseDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo expenseRepository
	now  func() time.Time
}

func NewService(repo expenseRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("expense repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ExpenseDTO, error) {
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end must not be before start")
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expenses")
	}
	out := make([]ExpenseDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *expenseFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ExpenseDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return expenseFromModel(row), nil
}

func (s *service) Create(ctx context.Context, input ExpenseInput) (*ExpenseDTO, error) {
	row := &models.Expense{Date: s.now().UTC()}
	if err := s.apply(ctx, row, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create expense")
	}
	return s.Get(ctx, row.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input ExpenseInput) (*ExpenseDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, row, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update expense")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete expense")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
	}
	return nil
}

// apply validates input and copies it onto row.
func (s *service) apply(ctx context.Context, row *models.Expense, input ExpenseInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategory(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "expense category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load expense category")
		}
	}

	row.Name = name
	row.Description = strings.TrimSpace(input.Description)
	row.Amount = input.Amount.Round(2)
	row.CategoryID = input.CategoryID
	row.Category = nil
	if input.Date != nil {
		row.Date = input.Date.UTC()
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load expense")
	}
	return row, nil
}
