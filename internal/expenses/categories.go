package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/sauce-pos/pkg/db"
	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sauce-pos/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const msgCategoryNameTaken = "category with this name already exists"

type categoryRepository interface {
	ListCategories(ctx context.Context) ([]models.ExpenseCategory, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.ExpenseCategory, error)
	CategoryNameTaken(ctx context.Context, name string, exclude *uuid.UUID) (bool, error)
	CreateCategory(ctx context.Context, category *models.ExpenseCategory) error
	UpdateCategory(ctx context.Context, category *models.ExpenseCategory) error
	DeleteCategory(ctx context.Context, id uuid.UUID) (int64, error)
	CountExpensesInCategory(ctx context.Context, id uuid.UUID) (int64, error)
}

// CategoryService manages expense categories.
type CategoryService interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	Create(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo categoryRepository
}

func NewCategoryService(repo categoryRepository) (CategoryService, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &categoryService{repo: repo}, nil
}

func (s *categoryService) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expense categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *categoryFromModel(&rows[i]))
	}
	return out, nil
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return categoryFromModel(row), nil
}

func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	name, err := s.checkName(ctx, input.Name, nil)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	row := &models.ExpenseCategory{Name: name, Description: &description}
	if err := s.repo.CreateCategory(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, msgCategoryNameTaken)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create expense category")
	}
	return categoryFromModel(row), nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := s.checkName(ctx, input.Name, &id)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	row.Name = name
	row.Description = &description
	if err := s.repo.UpdateCategory(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, msgCategoryNameTaken)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update expense category")
	}
	return categoryFromModel(row), nil
}

// Delete removes an unused category. Categories still referenced by an
// expense are refused.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	used, err := s.repo.CountExpensesInCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category usage")
	}
	if used > 0 {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "cannot delete category that is used by expenses")
	}
	deleted, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "cannot delete category that is used by expenses")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete expense category")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "expense category not found")
	}
	return nil
}

func (s *categoryService) checkName(ctx context.Context, raw string, exclude *uuid.UUID) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	taken, err := s.repo.CategoryNameTaken(ctx, name, exclude)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category name")
	}
	if taken {
		return "", pkgerrors.New(pkgerrors.CodeBusinessRule, msgCategoryNameTaken)
	}
	return name, nil
}

func (s *categoryService) load(ctx context.Context, id uuid.UUID) (*models.ExpenseCategory, error) {
	row, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load expense category")
	}
	return row, nil
}
