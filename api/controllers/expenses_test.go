package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sauce-pos/internal/expenses"
	pkgerrors "github.com/angelmondragon/sauce-pos/pkg/errors"
)

type stubExpenseService struct {
	input    *expenses.ExpenseInput
	filter   *expenses.ListFilter
	deleted  uuid.UUID
	notFound bool
}

func (s *stubExpenseService) List(_ context.Context, filter expenses.ListFilter) ([]expenses.ExpenseDTO, error) {
	s.filter = &filter
	return []expenses.ExpenseDTO{}, nil
}

func (s *stubExpenseService) Get(_ context.Context, id uuid.UUID) (*expenses.ExpenseDTO, error) {
	return &expenses.ExpenseDTO{ID: id}, nil
}

func (s *stubExpenseService) Create(_ context.Context, input expenses.ExpenseInput) (*expenses.ExpenseDTO, error) {
	s.input = &input
	return &expenses.ExpenseDTO{ID: uuid.New(), Name: input.Name, Amount: input.Amount}, nil
}

func (s *stubExpenseService) Update(_ context.Context, id uuid.UUID, input expenses.ExpenseInput) (*expenses.ExpenseDTO, error) {
	s.input = &input
	return &expenses.ExpenseDTO{ID: id, Name: input.Name, Amount: input.Amount}, nil
}

func (s *stubExpenseService) Delete(_ context.Context, id uuid.UUID) error {
	if s.notFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
	}
	s.deleted = id
	return nil
}

type stubCategoryService struct {
	deleteErr error
}

func (s *stubCategoryService) List(context.Context) ([]expenses.CategoryDTO, error) {
	return []expenses.CategoryDTO{}, nil
}

func (s *stubCategoryService) Get(_ context.Context, id uuid.UUID) (*expenses.CategoryDTO, error) {
	return &expenses.CategoryDTO{ID: id}, nil
}

func (s *stubCategoryService) Create(_ context.Context, input expenses.CategoryInput) (*expenses.CategoryDTO, error) {
	return &expenses.CategoryDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubCategoryService) Update(_ context.Context, id uuid.UUID, input expenses.CategoryInput) (*expenses.CategoryDTO, error) {
	return &expenses.CategoryDTO{ID: id, Name: input.Name}, nil
}

func (s *stubCategoryService) Delete(context.Context, uuid.UUID) error {
	return s.deleteErr
}

func TestExpenseCreate(t *testing.T) {
	logg := testLogger()
	categoryID := uuid.New()

	t.Run("parses amount date and category", func(t *testing.T) {
		stub := &stubExpenseService{}
		body := `{"name":"Chili","amount":"120.50","date":"2026-03-04","category_id":"` + categoryID.String() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses", strings.NewReader(body))
		rec := httptest.NewRecorder()

		ExpenseCreate(stub, logg).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, stub.input)
		assert.Equal(t, "120.5", stub.input.Amount.String())
		require.NotNil(t, stub.input.Date)
		assert.Equal(t, 4, stub.input.Date.Day())
		require.NotNil(t, stub.input.CategoryID)
		assert.Equal(t, categoryID, *stub.input.CategoryID)
	})

	t.Run("missing amount", func(t *testing.T) {
		stub := &stubExpenseService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses", strings.NewReader(`{"name":"Chili"}`))
		rec := httptest.NewRecorder()

		ExpenseCreate(stub, logg).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, stub.input)
	})

	t.Run("bad date", func(t *testing.T) {
		stub := &stubExpenseService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses", strings.NewReader(`{"name":"Chili","amount":10,"date":"03/04/2026"}`))
		rec := httptest.NewRecorder()

		ExpenseCreate(stub, logg).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "date", decodeError(t, rec).Error.Details["field"])
		assert.Nil(t, stub.input)
	})
}

func TestExpenseListFilters(t *testing.T) {
	logg := testLogger()
	categoryID := uuid.New()
	stub := &stubExpenseService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses?start_date=2026-01-01&category_id="+categoryID.String(), nil)
	rec := httptest.NewRecorder()
	ExpenseList(stub, logg).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.filter)
	assert.NotNil(t, stub.filter.Start)
	assert.Nil(t, stub.filter.End)
	require.NotNil(t, stub.filter.CategoryID)
	assert.Equal(t, categoryID, *stub.filter.CategoryID)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/expenses?category_id=abc", nil)
	rec = httptest.NewRecorder()
	ExpenseList(&stubExpenseService{}, logg).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpenseDelete(t *testing.T) {
	logg := testLogger()
	id := uuid.New()

	stub := &stubExpenseService{}
	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/expenses/"+id.String(), nil), "expenseId", id.String())
	rec := httptest.NewRecorder()
	ExpenseDelete(stub, logg).ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, stub.deleted)

	req = withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/expenses/"+id.String(), nil), "expenseId", id.String())
	rec = httptest.NewRecorder()
	ExpenseDelete(&stubExpenseService{notFound: true}, logg).ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExpenseCategoryDeleteInUse(t *testing.T) {
	logg := testLogger()
	id := uuid.New()
	stub := &stubCategoryService{deleteErr: pkgerrors.New(pkgerrors.CodeBusinessRule, "cannot delete category that is used by expenses")}

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/expense-categories/"+id.String(), nil), "categoryId", id.String())
	rec := httptest.NewRecorder()
	ExpenseCategoryDelete(stub, logg).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	assert.Equal(t, string(pkgerrors.CodeBusinessRule), got.Error.Code)
	assert.Equal(t, "cannot delete category that is used by expenses", got.Error.Message)
}

func TestExpenseCategoryCreateRequiresName(t *testing.T) {
	logg := testLogger()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/expense-categories", strings.NewReader(`{"description":"x"}`))
	rec := httptest.NewRecorder()
	ExpenseCategoryCreate(&stubCategoryService{}, logg).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
