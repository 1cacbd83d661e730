package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/sauce-pos/internal/stock"
	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	"github.com/angelmondragon/sauce-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/sauce-pos/pkg/errors"
	"github.com/angelmondragon/sauce-pos/pkg/logger"
	"github.com/angelmondragon/sauce-pos/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service records sales against shelf and sauce inventory.
type Service interface {
	Create(ctx context.Context, input CreateSaleInput) (*SaleDTO, error)
	List(ctx context.Context, filter ListFilter) ([]SaleDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*SaleDTO, error)
}

type service struct {
	tx       txRunner
	repo     Repository
	stock    stock.Repository
	products productLoader
	metrics  *metrics.SaleMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// Option customises the sale service.
type Option func(*service)

// WithMetrics records sale outcomes on m.
func WithMetrics(m *metrics.SaleMetrics) Option {
	return func(s *service) { s.metrics = m }
}

// WithLogger enables structured logs for committed and rejected sales.
func WithLogger(l *logger.Logger) Option {
	return func(s *service) { s.logg = l }
}

// WithClock overrides the time source used to stamp sales.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds the sale service.
func NewService(tx txRunner, repo Repository, stockRepo stock.Repository, products productLoader, opts ...Option) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if stockRepo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	svc := &service{
		tx:       tx,
		repo:     repo,
		stock:    stockRepo,
		products: products,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

type shelfKey struct {
	storeID   uuid.UUID
	productID uuid.UUID
}

// resolvedItem is a requested line joined with its catalog product.
type resolvedItem struct {
	input   SaleItemInput
	product *models.Product
}

// Create validates availability for the whole basket, then commits the sale,
// its lines and every stock decrement in one transaction. Nothing is written
// when any line is short.
func (s *service) Create(ctx context.Context, input CreateSaleInput) (*SaleDTO, error) {
	started := s.now()
	dto, err := s.create(ctx, input)
	s.record(ctx, err, dto, s.now().Sub(started))
	return dto, err
}

func (s *service) create(ctx context.Context, input CreateSaleInput) (*SaleDTO, error) {
	items, err := s.resolve(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.checkAvailability(ctx, items); err != nil {
		return nil, err
	}

	var saleID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		stockRepo := s.stock.WithTx(tx)

		storeID, err := s.destinationStore(ctx, repo, items)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, item := range items {
			total = total.Add(item.product.Price.Mul(decimal.NewFromInt(int64(item.input.Quantity))))
		}

		sale := &models.Sale{
			StoreID: storeID,
			Total:   total,
			Date:    s.now().UTC(),
		}
		if err := repo.CreateSale(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sale")
		}

		lines := make([]models.SaleLine, 0, len(items))
		for i, item := range items {
			lines = append(lines, models.SaleLine{
				SaleID:    sale.ID,
				ProductID: item.product.ID,
				Position:  i,
				Quantity:  item.input.Quantity,
				Price:     item.product.Price,
			})
		}
		if err := repo.CreateLines(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sale lines")
		}

		for _, item := range items {
			if item.product.Shelf && item.input.StoreID != nil {
				if err := stock.DecrementShelf(ctx, stockRepo, *item.input.StoreID, item.product, item.input.Quantity); err != nil {
					return err
				}
			}
			if item.product.TracksSauce() {
				if err := stock.DecrementSauce(ctx, stockRepo, item.product.SauceType, item.input.Quantity); err != nil {
					return err
				}
			}
		}

		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, saleID)
}

// resolve checks the request shape and loads every referenced product and
// store once.
func (s *service) resolve(ctx context.Context, input CreateSaleInput) ([]resolvedItem, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale must contain at least one item")
	}

	products := map[uuid.UUID]*models.Product{}
	checkedStores := map[uuid.UUID]struct{}{}
	items := make([]resolvedItem, 0, len(input.Items))

	for i, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d]: product_id is required", i))
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d]: quantity must be positive", i))
		}
		if item.Quantity > stock.MaxQuantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items[%d]: quantity must not exceed %d", i, stock.MaxQuantity))
		}

		product, ok := products[item.ProductID]
		if !ok {
			loaded, err := s.products.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", item.ProductID))
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			products[item.ProductID] = loaded
			product = loaded
		}

		if item.StoreID != nil {
			if _, seen := checkedStores[*item.StoreID]; !seen {
				exists, err := s.repo.StoreExists(ctx, *item.StoreID)
				if err != nil {
					return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
				}
				if !exists {
					return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("store %s not found", *item.StoreID))
				}
				checkedStores[*item.StoreID] = struct{}{}
			}
		}

		items = append(items, resolvedItem{input: item, product: product})
	}
	return items, nil
}

// checkAvailability compares the aggregated basket demand against current
// stock so a basket splitting one product over several lines is judged as a
// whole. The conditional decrements in the commit pass stay authoritative.
func (s *service) checkAvailability(ctx context.Context, items []resolvedItem) error {
	shelfDemand := map[shelfKey]int{}
	sauceDemand := map[enums.SauceType]int{}
	for _, item := range items {
		if item.product.Shelf && item.input.StoreID != nil {
			shelfDemand[shelfKey{storeID: *item.input.StoreID, productID: item.product.ID}] += item.input.Quantity
		}
		if item.product.TracksSauce() {
			sauceDemand[item.product.SauceType] += item.input.Quantity
		}
	}

	checkedShelf := map[shelfKey]bool{}
	checkedSauce := map[enums.SauceType]bool{}
	for _, item := range items {
		if item.product.Shelf && item.input.StoreID != nil {
			key := shelfKey{storeID: *item.input.StoreID, productID: item.product.ID}
			if !checkedShelf[key] {
				checkedShelf[key] = true
				available, err := s.shelfAvailable(ctx, key)
				if err != nil {
					return err
				}
				if available < shelfDemand[key] {
					return stock.ErrInsufficientShelf(key.storeID, key.productID, item.product.Name, available, shelfDemand[key])
				}
			}
		}
		if item.product.TracksSauce() {
			sauce := item.product.SauceType
			if !checkedSauce[sauce] {
				checkedSauce[sauce] = true
				available, err := s.sauceAvailable(ctx, sauce)
				if err != nil {
					return err
				}
				if available < sauceDemand[sauce] {
					return stock.ErrInsufficientSauce(sauce, available, sauceDemand[sauce])
				}
			}
		}
	}
	return nil
}

func (s *service) shelfAvailable(ctx context.Context, key shelfKey) (int, error) {
	row, err := s.stock.GetStoreStock(ctx, key.storeID, key.productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store stock")
	}
	return row.Quantity, nil
}

func (s *service) sauceAvailable(ctx context.Context, sauce enums.SauceType) (int, error) {
	row, err := s.stock.GetSauceStock(ctx, sauce)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sauce stock")
	}
	return row.Quantity, nil
}

// destinationStore is the first store named by an item, falling back to the
// oldest store.
func (s *service) destinationStore(ctx context.Context, repo Repository, items []resolvedItem) (uuid.UUID, error) {
	for _, item := range items {
		if item.input.StoreID != nil {
			return *item.input.StoreID, nil
		}
	}
	id, err := repo.FirstStoreID(ctx)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default store")
	}
	if id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "no store available")
	}
	return id, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]SaleDTO, error) {
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end must not be before start")
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	out := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SaleDTO, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	return FromModel(sale), nil
}

func (s *service) record(ctx context.Context, err error, dto *SaleDTO, elapsed time.Duration) {
	if err == nil {
		s.metrics.Observe(metrics.OutcomeCreated, elapsed)
		if dto != nil {
			s.metrics.AddRevenue(dto.Total)
			if s.logg != nil {
				ctx = s.logg.WithSaleID(ctx, dto.ID.String())
				ctx = s.logg.WithField(ctx, "total", dto.Total.StringFixed(2))
				s.logg.Info(ctx, "sale.created")
			}
		}
		return
	}

	if kind := stock.ShortageKind(err); kind != "" {
		s.metrics.IncShortage(kind)
	}
	outcome := metrics.OutcomeFailed
	if typed := pkgerrors.As(err); typed != nil && pkgerrors.MetadataFor(typed.Code()).HTTPStatus < 500 {
		outcome = metrics.OutcomeRejected
	}
	s.metrics.Observe(outcome, elapsed)
	if s.logg != nil && outcome == metrics.OutcomeRejected {
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "sale.rejected")
	}
}
