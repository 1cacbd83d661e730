package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sauce-pos/internal/expenses"
	products "github.com/angelmondragon/sauce-pos/internal/products"
	"github.com/angelmondragon/sauce-pos/internal/reports"
	"github.com/angelmondragon/sauce-pos/internal/sales"
	"github.com/angelmondragon/sauce-pos/internal/stock"
	"github.com/angelmondragon/sauce-pos/internal/stores"
	"github.com/angelmondragon/sauce-pos/pkg/config"
	"github.com/angelmondragon/sauce-pos/pkg/db"
	"github.com/angelmondragon/sauce-pos/pkg/db/dbtest"
	"github.com/angelmondragon/sauce-pos/pkg/logger"
	"github.com/angelmondragon/sauce-pos/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	conn := dbtest.Open(t, "router")
	client := db.FromGorm(conn)
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	cfg := &config.Config{App: config.AppConfig{Env: "test", CORSOrigins: []string{"http://localhost:3000"}}}

	productRepo := products.NewRepository(conn)
	storeRepo := stores.NewRepository(conn)
	stockRepo := stock.NewRepository(conn)
	saleRepo := sales.NewRepository(conn)
	expenseRepo := expenses.NewRepository(conn)

	productService, err := products.NewService(productRepo)
	require.NoError(t, err)
	storeService, err := stores.NewService(storeRepo)
	require.NoError(t, err)
	stockService, err := stock.NewService(client, stockRepo, productRepo, storeRepo)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	saleService, err := sales.NewService(client, saleRepo, stockRepo, productRepo, sales.WithMetrics(metrics.NewSaleMetrics(reg)))
	require.NoError(t, err)
	reportService, err := reports.NewService(saleRepo, time.UTC)
	require.NoError(t, err)
	categoryService, err := expenses.NewCategoryService(expenseRepo)
	require.NoError(t, err)
	expenseService, err := expenses.NewService(expenseRepo)
	require.NoError(t, err)

	return NewRouter(cfg, logg, stubPinger{}, nil, metrics.NewHTTPMetrics(reg), reg,
		productService, storeService, stockService, saleService, reportService, categoryService, expenseService)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	return envelope.Data
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestSaleFlow(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/stores", map[string]any{"name": "Siam"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	store := decodeData[stores.StoreDTO](t, rec)

	rec = do(t, h, http.MethodPost, "/api/v1/products", map[string]any{
		"name": "Hot Wings", "price": 45, "owner": "Somchai", "shelf": true, "sauce_type": "HOT",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decodeData[products.ProductDTO](t, rec)

	rec = do(t, h, http.MethodPost, "/api/v1/sauce-stock/init", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/sauce-stock", map[string]any{"sauce_type": "HOT", "quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/stores/"+store.ID.String()+"/stock", map[string]any{
		"product_id": product.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	saleBody := map[string]any{"items": []map[string]any{
		{"product_id": product.ID, "quantity": 2, "store_id": store.ID},
	}}
	rec = do(t, h, http.MethodPost, "/api/v1/sales", saleBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decodeData[sales.SaleDTO](t, rec)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(90)))
	require.Len(t, sale.Items, 1)
	assert.Equal(t, store.ID, sale.StoreID)

	rec = do(t, h, http.MethodPost, "/api/v1/sales", saleBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_STOCK")

	rec = do(t, h, http.MethodGet, "/api/v1/sales/"+sale.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]sales.SaleDTO](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/v1/store-stock?store_id="+store.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeData[[]stock.StoreStockDTO](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Quantity)

	rec = do(t, h, http.MethodGet, "/api/v1/reports/revenue?owner=somchai", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decodeData[reports.RevenueReport](t, rec)
	assert.Equal(t, 1, report.Summary.TotalSales)
	assert.True(t, report.Summary.TotalRevenue.Equal(decimal.NewFromInt(90)))

	rec = do(t, h, http.MethodDelete, "/api/v1/stores/"+store.ID.String(), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpenseRoutes(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/expense-categories", map[string]any{"name": "Ingredients"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	category := decodeData[expenses.CategoryDTO](t, rec)

	rec = do(t, h, http.MethodPost, "/api/v1/expenses", map[string]any{
		"name": "Chili", "amount": "120.50", "date": "2026-03-04", "category_id": category.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/expenses?category_id="+category.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]expenses.ExpenseDTO](t, rec), 1)

	rec = do(t, h, http.MethodDelete, "/api/v1/expense-categories/"+category.ID.String(), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/expenses/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
