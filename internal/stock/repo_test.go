package stock

import (
	"context"
	"testing"

	"github.com/angelmondragon/sauce-pos/pkg/db"
	"github.com/angelmondragon/sauce-pos/pkg/db/dbtest"
	"github.com/angelmondragon/sauce-pos/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionalDecrementLeavesRowUntouchedWhenShort(t *testing.T) {
	conn := dbtest.Open(t, "stock_repo")
	repo := NewRepository(conn)
	ctx := context.Background()
	store := dbtest.MustCreateStore(t, conn, "Main")
	p := dbtest.MustCreateProduct(t, conn, "Jar", 10, dbtest.WithShelf())
	dbtest.MustSetStoreStock(t, conn, store.ID, p.ID, 3)

	ok, err := repo.DecrementStoreStock(ctx, store.ID, p.ID, 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, dbtest.StoreStockQty(t, conn, store.ID, p.ID))

	ok, err = repo.DecrementStoreStock(ctx, store.ID, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, dbtest.StoreStockQty(t, conn, store.ID, p.ID))
}

func TestSauceDecrementAndEnsure(t *testing.T) {
	conn := dbtest.Open(t, "sauce_repo")
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.EnsureSauceStock(ctx, enums.SauceTypeMedium)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.EnsureSauceStock(ctx, enums.SauceTypeMedium)
	require.NoError(t, err)
	assert.False(t, created)

	ok, err := repo.DecrementSauceStock(ctx, enums.SauceTypeMedium, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.UpsertSauceStock(ctx, enums.SauceTypeMedium, 2))
	ok, err = repo.DecrementSauceStock(ctx, enums.SauceTypeMedium, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, dbtest.SauceStockQty(t, conn, enums.SauceTypeMedium))
}

// Runs against a migrated Postgres when SAUCEPOS_TEST_DB_DSN is set.
func TestPostgresCheckConstraintRejectsNegativeQuantity(t *testing.T) {
	conn := dbtest.OpenPostgres(t)
	tx := conn.Begin()
	defer tx.Rollback()

	store := dbtest.MustCreateStore(t, tx, "pg-store")
	p := dbtest.MustCreateProduct(t, tx, "pg-product", 10, dbtest.WithShelf())
	dbtest.MustSetStoreStock(t, tx, store.ID, p.ID, 1)

	err := tx.Exec("SAVEPOINT neg").Error
	require.NoError(t, err)
	err = tx.Exec("UPDATE store_stocks SET quantity = -1 WHERE store_id = ? AND product_id = ?", store.ID, p.ID).Error
	require.Error(t, err)
	assert.True(t, db.IsCheckViolation(err), "unexpected error %v", err)
	require.NoError(t, tx.Exec("ROLLBACK TO SAVEPOINT neg").Error)
}
