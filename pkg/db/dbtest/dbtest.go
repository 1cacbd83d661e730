// Package dbtest opens throwaway databases with the full schema for
// repository and service tests.
package dbtest

import (
	"os"
	"testing"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	"github.com/angelmondragon/sauce-pos/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnvPostgresDSN points integration tests at a migrated Postgres database.
const EnvPostgresDSN = "SAUCEPOS_TEST_DB_DSN"

// Open returns an isolated in-memory sqlite database with every model migrated.
func Open(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := "file:" + name + "_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// OpenPostgres connects to the database named by SAUCEPOS_TEST_DB_DSN and
// skips the test when it is unset. The schema must already be migrated.
func OpenPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv(EnvPostgresDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvPostgresDSN)
	}
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func MustCreateStore(t *testing.T, tx *gorm.DB, name string) *models.Store {
	t.Helper()
	store := &models.Store{Name: name}
	if err := tx.Create(store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

// ProductOption customizes fixtures built by MustCreateProduct.
type ProductOption func(*models.Product)

func WithShelf() ProductOption {
	return func(p *models.Product) { p.Shelf = true }
}

func WithSauce(s enums.SauceType) ProductOption {
	return func(p *models.Product) { p.SauceType = s }
}

func WithOwner(owner string) ProductOption {
	return func(p *models.Product) { p.Owner = owner }
}

func MustCreateProduct(t *testing.T, tx *gorm.DB, name string, price int64, opts ...ProductOption) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:      name,
		Price:     decimal.NewFromInt(price),
		SauceType: enums.SauceTypeNone,
	}
	for _, opt := range opts {
		opt(product)
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func MustSetStoreStock(t *testing.T, tx *gorm.DB, storeID, productID uuid.UUID, qty int) {
	t.Helper()
	row := &models.StoreStock{StoreID: storeID, ProductID: productID, Quantity: qty}
	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
		t.Fatalf("set store stock: %v", err)
	}
}

func MustSetSauceStock(t *testing.T, tx *gorm.DB, sauce enums.SauceType, qty int) *models.SauceStock {
	t.Helper()
	row := &models.SauceStock{SauceType: sauce, Quantity: qty}
	if err := tx.Create(row).Error; err != nil {
		t.Fatalf("set sauce stock: %v", err)
	}
	return row
}

func StoreStockQty(t *testing.T, tx *gorm.DB, storeID, productID uuid.UUID) int {
	t.Helper()
	var row models.StoreStock
	if err := tx.First(&row, "store_id = ? AND product_id = ?", storeID, productID).Error; err != nil {
		t.Fatalf("load store stock: %v", err)
	}
	return row.Quantity
}

func SauceStockQty(t *testing.T, tx *gorm.DB, sauce enums.SauceType) int {
	t.Helper()
	var row models.SauceStock
	if err := tx.First(&row, "sauce_type = ?", sauce).Error; err != nil {
		t.Fatalf("load sauce stock: %v", err)
	}
	return row.Quantity
}

func Count(t *testing.T, tx *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := tx.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
