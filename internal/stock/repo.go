package stock

import (
	"context"
	"time"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	"github.com/angelmondragon/sauce-pos/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists shelf and sauce stock. Decrements are conditional so a
// quantity never drops below zero; callers learn about shortages from the
// boolean result instead of a constraint error.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	GetStoreStock(ctx context.Context, storeID, productID uuid.UUID) (*models.StoreStock, error)
	ListStoreStock(ctx context.Context, storeID *uuid.UUID) ([]models.StoreStock, error)
	IncrementStoreStock(ctx context.Context, storeID, productID uuid.UUID, qty int) error
	DecrementStoreStock(ctx context.Context, storeID, productID uuid.UUID, qty int) (bool, error)
	SetStoreStock(ctx context.Context, storeID, productID uuid.UUID, qty int) error
	DeleteStoreStock(ctx context.Context, storeID, productID uuid.UUID) (int64, error)

	GetSauceStock(ctx context.Context, sauce enums.SauceType) (*models.SauceStock, error)
	FindSauceStockByID(ctx context.Context, id uuid.UUID) (*models.SauceStock, error)
	ListSauceStock(ctx context.Context) ([]models.SauceStock, error)
	UpsertSauceStock(ctx context.Context, sauce enums.SauceType, qty int) error
	EnsureSauceStock(ctx context.Context, sauce enums.SauceType) (bool, error)
	UpdateSauceStock(ctx context.Context, id uuid.UUID, qty int) (int64, error)
	DecrementSauceStock(ctx context.Context, sauce enums.SauceType, qty int) (bool, error)
	DeleteSauceStock(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to stock operations.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) GetStoreStock(ctx context.Context, storeID, productID uuid.UUID) (*models.StoreStock, error) {
	var row models.StoreStock
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListStoreStock(ctx context.Context, storeID *uuid.UUID) ([]models.StoreStock, error) {
	query := r.db.WithContext(ctx).Preload("Product")
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	var rows []models.StoreStock
	if err := query.Order("store_id ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// IncrementStoreStock creates the row at qty or adds qty to the existing one.
func (r *repository) IncrementStoreStock(ctx context.Context, storeID, productID uuid.UUID, qty int) error {
	row := &models.StoreStock{StoreID: storeID, ProductID: productID, Quantity: qty}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("store_stocks.quantity + ?", qty),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(row).Error
}

func (r *repository) DecrementStoreStock(ctx context.Context, storeID, productID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.StoreStock{}).
		Where("store_id = ? AND product_id = ? AND quantity >= ?", storeID, productID, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetStoreStock writes an absolute quantity, creating the row when absent.
func (r *repository) SetStoreStock(ctx context.Context, storeID, productID uuid.UUID, qty int) error {
	row := &models.StoreStock{StoreID: storeID, ProductID: productID, Quantity: qty}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   qty,
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(row).Error
}

func (r *repository) DeleteStoreStock(ctx context.Context, storeID, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Delete(&models.StoreStock{})
	return res.RowsAffected, res.Error
}

func (r *repository) GetSauceStock(ctx context.Context, sauce enums.SauceType) (*models.SauceStock, error) {
	var row models.SauceStock
	if err := r.db.WithContext(ctx).Where("sauce_type = ?", sauce).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindSauceStockByID(ctx context.Context, id uuid.UUID) (*models.SauceStock, error) {
	var row models.SauceStock
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListSauceStock(ctx context.Context) ([]models.SauceStock, error) {
	var rows []models.SauceStock
	if err := r.db.WithContext(ctx).Order("sauce_type ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpsertSauceStock(ctx context.Context, sauce enums.SauceType, qty int) error {
	row := &models.SauceStock{SauceType: sauce, Quantity: qty}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sauce_type"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   qty,
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(row).Error
}

// EnsureSauceStock creates an empty row for sauce if none exists and reports
// whether it did.
func (r *repository) EnsureSauceStock(ctx context.Context, sauce enums.SauceType) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "sauce_type"}}, DoNothing: true}).
		Create(&models.SauceStock{SauceType: sauce})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpdateSauceStock(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SauceStock{}).
		Where("id = ?", id).
		Updates(map[string]any{"quantity": qty, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *repository) DecrementSauceStock(ctx context.Context, sauce enums.SauceType, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SauceStock{}).
		Where("sauce_type = ? AND quantity >= ?", sauce, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) DeleteSauceStock(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.SauceStock{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
