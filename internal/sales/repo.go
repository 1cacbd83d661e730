package sales

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter bounds a sale listing by date, both ends inclusive.
type ListFilter struct {
	Start *time.Time
	End   *time.Time
}

// Repository persists sales and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateSale(ctx context.Context, sale *models.Sale) error
	CreateLines(ctx context.Context, lines []models.SaleLine) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, filter ListFilter) ([]models.Sale, error)

	StoreExists(ctx context.Context, id uuid.UUID) (bool, error)
	FirstStoreID(ctx context.Context) (uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateSale(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error
}

func (r *repository) CreateLines(ctx context.Context, lines []models.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&lines).Error
}

// FindByID loads a sale with its store and ordered lines expanded.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.expanded(ctx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// List returns sales newest first with lines and products expanded.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Sale, error) {
	query := r.expanded(ctx)
	if filter.Start != nil {
		query = query.Where("date >= ?", filter.Start.UTC())
	}
	if filter.End != nil {
		query = query.Where("date <= ?", filter.End.UTC())
	}
	var sales []models.Sale
	if err := query.Order("date DESC").Order("id ASC").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repository) StoreExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Store{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FirstStoreID returns the oldest store, or uuid.Nil when there is none.
func (r *repository) FirstStoreID(ctx context.Context) (uuid.UUID, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Select("id").
		Order("created_at ASC").
		Order("id ASC").
		First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return store.ID, nil
}

func (r *repository) expanded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Store").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Product")
}
