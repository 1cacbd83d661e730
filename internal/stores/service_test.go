package stores

import (
	"context"
	"testing"

	"github.com/angelmondragon/sauce-pos/pkg/db/dbtest"
	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sauce-pos/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t, "stores")
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, conn
}

func TestCreateAndGetStoreWithStock(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, " Siam Square ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "Siam Square" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}

	product := dbtest.MustCreateProduct(t, conn, "Chili Jar", 50, dbtest.WithShelf(), dbtest.WithOwner("Nok"))
	dbtest.MustSetStoreStock(t, conn, created.ID, product.ID, 7)

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Stock) != 1 {
		t.Fatalf("expected one stock line, got %d", len(got.Stock))
	}
	line := got.Stock[0]
	if line.ProductName != "Chili Jar" || line.Quantity != 7 || line.Owner != "Nok" {
		t.Fatalf("unexpected stock line %+v", line)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || len(list[0].Stock) != 1 {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestGetMissingStore(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetByID(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateStoreRequiresName(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "   ")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenameStore(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, "Old")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	renamed, err := svc.Rename(ctx, created.ID, "New")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if renamed.Name != "New" {
		t.Fatalf("expected New, got %q", renamed.Name)
	}
	if _, err := svc.Rename(ctx, uuid.New(), "x"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteStore(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	empty := dbtest.MustCreateStore(t, conn, "Empty")
	product := dbtest.MustCreateProduct(t, conn, "Jar", 10, dbtest.WithShelf())
	dbtest.MustSetStoreStock(t, conn, empty.ID, product.ID, 3)

	if err := svc.Delete(ctx, empty.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := dbtest.Count(t, conn, &models.StoreStock{}); n != 0 {
		t.Fatalf("expected stock rows removed, got %d", n)
	}

	busy := dbtest.MustCreateStore(t, conn, "Busy")
	if err := conn.Create(&models.Sale{StoreID: busy.ID, Total: decimal.NewFromInt(5)}).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	if err := svc.Delete(ctx, busy.ID); !pkgerrors.IsCode(err, pkgerrors.CodeBusinessRule) {
		t.Fatalf("expected business rule error, got %v", err)
	}
	if err := svc.Delete(ctx, uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
