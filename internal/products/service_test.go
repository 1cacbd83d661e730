package product

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/sauce-pos/pkg/db/dbtest"
	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	"github.com/angelmondragon/sauce-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/sauce-pos/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t, "products"))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestCreateAndListProducts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{
		Name:      "  Pad Thai Box ",
		Price:     decimal.RequireFromString("45.555"),
		Owner:     "Somchai",
		SauceType: "padthai",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pad Thai Box", created.Name)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("45.56")))
	assert.Equal(t, enums.SauceTypePadThai, created.SauceType)
	assert.Equal(t, "ซอสผัดไทย", created.SauceLabel)

	_, err = svc.Create(ctx, CreateProductInput{Name: "Chili Jar", Price: decimal.NewFromInt(30), Shelf: true})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Chili Jar", list[0].Name)
	assert.Equal(t, enums.SauceTypeNone, list[0].SauceType)
	assert.Empty(t, list[0].SauceLabel)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreateProductInput{
		{Name: " ", Price: decimal.NewFromInt(1)},
		{Name: "Neg", Price: decimal.NewFromInt(-1)},
		{Name: "Bad sauce", Price: decimal.NewFromInt(1), SauceType: "ketchup"},
	}
	for _, input := range cases {
		_, err := svc.Create(ctx, input)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "input %+v: %v", input, err)
	}
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{Name: "Noodles", Price: decimal.NewFromInt(40), Owner: "A"})
	require.NoError(t, err)

	shelf := true
	hot := "HOT"
	updated, err := svc.Update(ctx, created.ID, UpdateProductInput{Shelf: &shelf, SauceType: &hot})
	require.NoError(t, err)
	assert.Equal(t, "Noodles", updated.Name)
	assert.Equal(t, "A", updated.Owner)
	assert.True(t, updated.Shelf)
	assert.Equal(t, enums.SauceTypeHot, updated.SauceType)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Shelf)

	_, err = svc.Update(ctx, uuid.New(), UpdateProductInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteProduct(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	conn := repo.db

	free := dbtest.MustCreateProduct(t, conn, "Free", 10)
	require.NoError(t, svc.Delete(ctx, free.ID))
	_, err := svc.Get(ctx, free.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = svc.Delete(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	sold := dbtest.MustCreateProduct(t, conn, "Sold", 10)
	store := dbtest.MustCreateStore(t, conn, "Main")
	sale := &models.Sale{StoreID: store.ID, Total: decimal.NewFromInt(10)}
	require.NoError(t, conn.Create(sale).Error)
	require.NoError(t, conn.Create(&models.SaleLine{SaleID: sale.ID, ProductID: sold.ID, Quantity: 1, Price: decimal.NewFromInt(10)}).Error)

	err = svc.Delete(ctx, sold.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBusinessRule))
}

type failingRepo struct {
	productRepository
}

func (failingRepo) List(context.Context) ([]models.Product, error) {
	return nil, errors.New("connection reset")
}

func (failingRepo) FindByID(context.Context, uuid.UUID) (*models.Product, error) {
	return nil, errors.New("connection reset")
}

func TestRepositoryFailuresMapToDependency(t *testing.T) {
	svc, err := NewService(failingRepo{})
	require.NoError(t, err)

	_, err = svc.List(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	_, err = svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
