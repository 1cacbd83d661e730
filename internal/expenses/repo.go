package expenses

import (
	"context"
	"time"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter narrows an expense listing. Date bounds are inclusive.
type ListFilter struct {
	Start      *time.Time
	End        *time.Time
	CategoryID *uuid.UUID
}

// Repository persists expenses and their categories.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	var rows []models.ExpenseCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.ExpenseCategory, error) {
	var row models.ExpenseCategory
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CategoryNameTaken reports whether another category already uses name.
// exclude skips the category being renamed.
func (r *Repository) CategoryNameTaken(ctx context.Context, name string, exclude *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.ExpenseCategory{}).Where("name = ?", name)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *models.ExpenseCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) UpdateCategory(ctx context.Context, category *models.ExpenseCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.ExpenseCategory{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *Repository) CountExpensesInCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Expense{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

// List returns expenses newest first with their category expanded.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Expense, error) {
	query := r.db.WithContext(ctx).Preload("Category")
	if filter.Start != nil {
		query = query.Where("date >= ?", filter.Start.UTC())
	}
	if filter.End != nil {
		query = query.Where("date <= ?", filter.End.UTC())
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	var rows []models.Expense
	if err := query.Order("date DESC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	var row models.Expense
	if err := r.db.WithContext(ctx).Preload("Category").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Omit("Category").Create(expense).Error
}

// Update writes every column of the expense, including a cleared category.
func (r *Repository) Update(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Omit("Category").Save(expense).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Expense{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
