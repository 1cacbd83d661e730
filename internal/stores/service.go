package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sauce-pos/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindWithStock(ctx context.Context, id uuid.UUID) (*models.Store, error)
	ListWithStock(ctx context.Context) ([]models.Store, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	CountSales(ctx context.Context, id uuid.UUID) (int64, error)
}

// Service exposes store operations.
type Service interface {
	List(ctx context.Context) ([]StoreDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	Create(ctx context.Context, name string) (*StoreDTO, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*StoreDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo storeRepository
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]StoreDTO, error) {
	rows, err := s.repo.ListWithStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	out := make([]StoreDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindWithStock(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return FromModel(store), nil
}

func (s *service) Create(ctx context.Context, name string) (*StoreDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	store := &models.Store{Name: name}
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return FromModel(store), nil
}

func (s *service) Rename(ctx context.Context, id uuid.UUID, name string) (*StoreDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	updated, err := s.repo.UpdateName(ctx, id, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	if updated == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return s.GetByID(ctx, id)
}

// Delete removes a store and its stock rows. Stores with recorded sales are
// kept so the sale history stays intact.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	sales, err := s.repo.CountSales(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check store usage")
	}
	if sales > 0 {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "cannot delete store with recorded sales")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return nil
}
