package stores

import (
	"context"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

// FindByID loads a store by its UUID without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindWithStock loads a store with its stock rows and their products.
func (r *Repository) FindWithStock(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.withStock(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// ListWithStock returns every store, oldest first, with stock expanded.
func (r *Repository) ListWithStock(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := r.withStock(ctx).Order("created_at ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// First returns the oldest store, used as the default sale destination.
func (r *Repository) First(ctx context.Context) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *Repository) UpdateName(ctx context.Context, id uuid.UUID, name string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", id).
		Update("name", name)
	return res.RowsAffected, res.Error
}

// Delete removes the store together with its stock rows.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&models.StoreStock{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Store{}, "id = ?", id)
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

// CountSales reports how many sales were recorded at the store.
func (r *Repository) CountSales(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Sale{}).Where("store_id = ?", id).Count(&count).Error
	return count, err
}

func (r *Repository) withStock(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("StoreStocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("StoreStocks.Product")
}
