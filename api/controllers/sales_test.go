package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sauce-pos/internal/sales"
	pkgerrors "github.com/angelmondragon/sauce-pos/pkg/errors"
	"github.com/angelmondragon/sauce-pos/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

type stubSaleService struct {
	createInput *sales.CreateSaleInput
	listFilter  *sales.ListFilter
	createErr   error
	sale        *sales.SaleDTO
}

func (s *stubSaleService) Create(_ context.Context, input sales.CreateSaleInput) (*sales.SaleDTO, error) {
	s.createInput = &input
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.sale, nil
}

func (s *stubSaleService) List(_ context.Context, filter sales.ListFilter) ([]sales.SaleDTO, error) {
	s.listFilter = &filter
	return []sales.SaleDTO{}, nil
}

func (s *stubSaleService) Get(_ context.Context, id uuid.UUID) (*sales.SaleDTO, error) {
	if s.sale == nil || s.sale.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}
	return s.sale, nil
}

func TestSaleCreate(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()
	storeID := uuid.New()

	t.Run("maps request items", func(t *testing.T) {
		stub := &stubSaleService{sale: &sales.SaleDTO{ID: uuid.New(), Total: decimal.NewFromInt(90)}}
		body := `{"items":[{"product_id":"` + productID.String() + `","quantity":2,"store_id":"` + storeID.String() + `"}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		SaleCreate(stub, logg).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, stub.createInput)
		require.Len(t, stub.createInput.Items, 1)
		item := stub.createInput.Items[0]
		assert.Equal(t, productID, item.ProductID)
		assert.Equal(t, 2, item.Quantity)
		require.NotNil(t, item.StoreID)
		assert.Equal(t, storeID, *item.StoreID)
	})

	t.Run("empty items rejected", func(t *testing.T) {
		stub := &stubSaleService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(`{"items":[]}`))
		rec := httptest.NewRecorder()

		SaleCreate(stub, logg).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(pkgerrors.CodeValidation), decodeError(t, rec).Error.Code)
		assert.Nil(t, stub.createInput)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		stub := &stubSaleService{}
		body := `{"items":[{"product_id":"` + productID.String() + `","quantity":0}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		SaleCreate(stub, logg).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, stub.createInput)
	})

	t.Run("oversized quantity rejected", func(t *testing.T) {
		stub := &stubSaleService{}
		body := `{"items":[{"product_id":"` + productID.String() + `","quantity":9223372036854775807},{"product_id":"` + productID.String() + `","quantity":1}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		SaleCreate(stub, logg).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(pkgerrors.CodeValidation), decodeError(t, rec).Error.Code)
		assert.Nil(t, stub.createInput)
	})

	t.Run("shortage surfaces as insufficient stock", func(t *testing.T) {
		stub := &stubSaleService{createErr: pkgerrors.New(pkgerrors.CodeInsufficientStock, "Insufficient stock for product A").
			WithDetails(map[string]any{"available": 1, "requested": 2})}
		body := `{"items":[{"product_id":"` + productID.String() + `","quantity":2}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body))
		rec := httptest.NewRecorder()

		SaleCreate(stub, logg).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		got := decodeError(t, rec)
		assert.Equal(t, string(pkgerrors.CodeInsufficientStock), got.Error.Code)
		assert.Equal(t, "Insufficient stock for product A", got.Error.Message)
	})
}

func TestSaleList(t *testing.T) {
	logg := testLogger()

	t.Run("passes date range", func(t *testing.T) {
		stub := &stubSaleService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sales?start_date=2026-03-01&end_date=2026-03-31", nil)
		rec := httptest.NewRecorder()

		SaleList(stub, logg).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, stub.listFilter)
		require.NotNil(t, stub.listFilter.Start)
		require.NotNil(t, stub.listFilter.End)
		assert.Equal(t, 3, int(stub.listFilter.Start.Month()))
	})

	t.Run("bad date", func(t *testing.T) {
		stub := &stubSaleService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sales?start_date=yesterday", nil)
		rec := httptest.NewRecorder()

		SaleList(stub, logg).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, stub.listFilter)
	})
}

func TestSaleGet(t *testing.T) {
	logg := testLogger()
	sale := &sales.SaleDTO{ID: uuid.New()}
	stub := &stubSaleService{sale: sale}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/sales/"+sale.ID.String(), nil), "saleId", sale.ID.String())
	rec := httptest.NewRecorder()
	SaleGet(stub, logg).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	missing := uuid.New()
	req = withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/sales/"+missing.String(), nil), "saleId", missing.String())
	rec = httptest.NewRecorder()
	SaleGet(stub, logg).ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/sales/nope", nil), "saleId", "nope")
	rec = httptest.NewRecorder()
	SaleGet(stub, logg).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
