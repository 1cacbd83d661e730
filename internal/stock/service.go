package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	"github.com/angelmondragon/sauce-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/sauce-pos/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type storeLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service manages shelf stock per store and the shared sauce inventory.
type Service interface {
	AdjustStoreStock(ctx context.Context, input AdjustInput) (*StoreStockDTO, error)
	AdjustStoreStockWithSauce(ctx context.Context, input AdjustInput) (*StoreStockDTO, error)
	ListStoreStock(ctx context.Context, storeID *uuid.UUID) ([]StoreStockDTO, error)
	SetStoreStock(ctx context.Context, storeID, productID uuid.UUID, qty int) (*StoreStockDTO, error)
	DeleteStoreStock(ctx context.Context, storeID, productID uuid.UUID) error

	ListSauceStock(ctx context.Context) ([]SauceStockDTO, error)
	UpsertSauceStock(ctx context.Context, sauce enums.SauceType, qty *int) (*SauceStockDTO, error)
	UpdateSauceStock(ctx context.Context, id uuid.UUID, qty int) (*SauceStockDTO, error)
	DeleteSauceStock(ctx context.Context, id uuid.UUID) error
	InitSauceStock(ctx context.Context) ([]SauceStockDTO, error)
}

type service struct {
	tx       txRunner
	repo     Repository
	products productLoader
	stores   storeLoader
}

// NewService builds the stock service.
func NewService(tx txRunner, repo Repository, products productLoader, stores storeLoader) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store loader required")
	}
	return &service{tx: tx, repo: repo, products: products, stores: stores}, nil
}

func (s *service) AdjustStoreStock(ctx context.Context, input AdjustInput) (*StoreStockDTO, error) {
	return s.adjust(ctx, input, false)
}

// AdjustStoreStockWithSauce restocks a shelf product and, when the product is
// made with a sauce, draws the same number of units from the sauce inventory.
func (s *service) AdjustStoreStockWithSauce(ctx context.Context, input AdjustInput) (*StoreStockDTO, error) {
	return s.adjust(ctx, input, true)
}

func (s *service) adjust(ctx context.Context, input AdjustInput, withSauce bool) (*StoreStockDTO, error) {
	if input.Delta > MaxQuantity || input.Delta < -MaxQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between -%d and %d", MaxQuantity, MaxQuantity))
	}
	if _, err := s.loadStore(ctx, input.StoreID); err != nil {
		return nil, err
	}
	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	drawSauce := withSauce && product.Shelf && product.SauceType.IsSauce() && input.Delta > 0

	var result *models.StoreStock
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if drawSauce {
			if err := DecrementSauce(ctx, repo, product.SauceType, input.Delta); err != nil {
				return err
			}
		}

		switch {
		case input.Delta >= 0:
			if err := repo.IncrementStoreStock(ctx, input.StoreID, input.ProductID, input.Delta); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment store stock")
			}
		default:
			if err := DecrementShelf(ctx, repo, input.StoreID, product, -input.Delta); err != nil {
				return err
			}
		}

		row, err := repo.GetStoreStock(ctx, input.StoreID, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload store stock")
		}
		row.Product = product
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := storeStockFromModel(result)
	return &dto, nil
}

// DecrementShelf removes qty units of product from the store shelf using the
// conditional update, translating a miss into an insufficient stock error.
func DecrementShelf(ctx context.Context, repo Repository, storeID uuid.UUID, product *models.Product, qty int) error {
	ok, err := repo.DecrementStoreStock(ctx, storeID, product.ID, qty)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement store stock")
	}
	if ok {
		return nil
	}
	available := 0
	row, err := repo.GetStoreStock(ctx, storeID, product.ID)
	switch {
	case err == nil:
		available = row.Quantity
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store stock")
	}
	return ErrInsufficientShelf(storeID, product.ID, product.Name, available, qty)
}

// DecrementSauce removes qty units from the shared sauce inventory.
func DecrementSauce(ctx context.Context, repo Repository, sauce enums.SauceType, qty int) error {
	ok, err := repo.DecrementSauceStock(ctx, sauce, qty)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement sauce stock")
	}
	if ok {
		return nil
	}
	available := 0
	row, err := repo.GetSauceStock(ctx, sauce)
	switch {
	case err == nil:
		available = row.Quantity
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sauce stock")
	}
	return ErrInsufficientSauce(sauce, available, qty)
}

func (s *service) ListStoreStock(ctx context.Context, storeID *uuid.UUID) ([]StoreStockDTO, error) {
	rows, err := s.repo.ListStoreStock(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store stock")
	}
	out := make([]StoreStockDTO, 0, len(rows))
	for i := range rows {
		out = append(out, storeStockFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) SetStoreStock(ctx context.Context, storeID, productID uuid.UUID, qty int) (*StoreStockDTO, error) {
	if qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be zero or greater")
	}
	if _, err := s.loadStore(ctx, storeID); err != nil {
		return nil, err
	}
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetStoreStock(ctx, storeID, productID, qty); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set store stock")
	}
	row, err := s.repo.GetStoreStock(ctx, storeID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload store stock")
	}
	row.Product = product
	dto := storeStockFromModel(row)
	return &dto, nil
}

func (s *service) DeleteStoreStock(ctx context.Context, storeID, productID uuid.UUID) error {
	deleted, err := s.repo.DeleteStoreStock(ctx, storeID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store stock")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store stock not found")
	}
	return nil
}

func (s *service) ListSauceStock(ctx context.Context) ([]SauceStockDTO, error) {
	rows, err := s.repo.ListSauceStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sauce stock")
	}
	return sauceStockDTOs(rows), nil
}

// UpsertSauceStock sets the absolute quantity of a sauce, creating its row on
// first use. A nil qty creates a missing row at 0 and leaves an existing one
// untouched.
func (s *service) UpsertSauceStock(ctx context.Context, sauce enums.SauceType, qty *int) (*SauceStockDTO, error) {
	if !sauce.IsSauce() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sauce type is required")
	}
	if qty == nil {
		if _, err := s.repo.EnsureSauceStock(ctx, sauce); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sauce stock")
		}
	} else {
		if *qty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be zero or greater")
		}
		if err := s.repo.UpsertSauceStock(ctx, sauce, *qty); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert sauce stock")
		}
	}
	row, err := s.repo.GetSauceStock(ctx, sauce)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload sauce stock")
	}
	dto := sauceStockFromModel(row)
	return &dto, nil
}

func (s *service) UpdateSauceStock(ctx context.Context, id uuid.UUID, qty int) (*SauceStockDTO, error) {
	if qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be zero or greater")
	}
	updated, err := s.repo.UpdateSauceStock(ctx, id, qty)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sauce stock")
	}
	if updated == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sauce stock not found")
	}
	row, err := s.repo.FindSauceStockByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload sauce stock")
	}
	dto := sauceStockFromModel(row)
	return &dto, nil
}

func (s *service) DeleteSauceStock(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteSauceStock(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete sauce stock")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "sauce stock not found")
	}
	return nil
}

// InitSauceStock makes sure every sauce has a row, leaving existing
// quantities untouched, and returns the full inventory.
func (s *service) InitSauceStock(ctx context.Context) ([]SauceStockDTO, error) {
	var rows []models.SauceStock
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, sauce := range enums.SauceTypes() {
			if _, err := repo.EnsureSauceStock(ctx, sauce); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sauce stock")
			}
		}
		var err error
		rows, err = repo.ListSauceStock(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sauce stock")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sauceStockDTOs(rows), nil
}

func (s *service) loadStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func sauceStockDTOs(rows []models.SauceStock) []SauceStockDTO {
	out := make([]SauceStockDTO, 0, len(rows))
	for i := range rows {
		out = append(out, sauceStockFromModel(&rows[i]))
	}
	return out
}
