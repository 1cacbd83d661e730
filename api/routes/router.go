package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/sauce-pos/api/controllers"
	"github.com/angelmondragon/sauce-pos/api/middleware"
	"github.com/angelmondragon/sauce-pos/internal/expenses"
	products "github.com/angelmondragon/sauce-pos/internal/products"
	"github.com/angelmondragon/sauce-pos/internal/reports"
	"github.com/angelmondragon/sauce-pos/internal/sales"
	"github.com/angelmondragon/sauce-pos/internal/stock"
	"github.com/angelmondragon/sauce-pos/internal/stores"
	"github.com/angelmondragon/sauce-pos/pkg/config"
	"github.com/angelmondragon/sauce-pos/pkg/db"
	"github.com/angelmondragon/sauce-pos/pkg/logger"
	"github.com/angelmondragon/sauce-pos/pkg/metrics"
	"github.com/angelmondragon/sauce-pos/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	productService products.Service,
	storeService stores.Service,
	stockService stock.Service,
	saleService sales.Service,
	reportService reports.Service,
	categoryService expenses.CategoryService,
	expenseService expenses.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(httpMetrics),
		middleware.Logging(logg),
	)

	readiness := map[string]controllers.Pinger{"database": dbP}
	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		readiness["redis"] = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productService, logg))
			r.Post("/", controllers.ProductCreate(productService, logg))
			r.Get("/{productId}", controllers.ProductGet(productService, logg))
			r.Put("/{productId}", controllers.ProductUpdate(productService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(productService, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.StoreList(storeService, logg))
			r.Post("/", controllers.StoreCreate(storeService, logg))
			r.Get("/{storeId}", controllers.StoreGet(storeService, logg))
			r.Put("/{storeId}", controllers.StoreUpdate(storeService, logg))
			r.Delete("/{storeId}", controllers.StoreDelete(storeService, logg))
			r.Post("/{storeId}/stock", controllers.StoreRestock(stockService, logg))
		})

		r.Route("/store-stock", func(r chi.Router) {
			r.Get("/", controllers.StoreStockList(stockService, logg))
			r.Post("/", controllers.StoreStockAdjust(stockService, logg))
			r.Put("/{storeId}/{productId}", controllers.StoreStockSet(stockService, logg))
			r.Delete("/{storeId}/{productId}", controllers.StoreStockDelete(stockService, logg))
		})

		r.Route("/sauce-stock", func(r chi.Router) {
			r.Get("/", controllers.SauceStockList(stockService, logg))
			r.Post("/", controllers.SauceStockUpsert(stockService, logg))
			r.Post("/init", controllers.SauceStockInit(stockService, logg))
			r.Put("/{sauceStockId}", controllers.SauceStockUpdate(stockService, logg))
			r.Delete("/{sauceStockId}", controllers.SauceStockDelete(stockService, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SaleList(saleService, logg))
			r.With(middleware.Idempotency(idempotencyStore, cfg.Redis.IdempotencyTTL, logg)).
				Post("/", controllers.SaleCreate(saleService, logg))
			r.Get("/{saleId}", controllers.SaleGet(saleService, logg))
		})

		r.Get("/reports/revenue", controllers.RevenueReport(reportService, logg))

		r.Route("/expense-categories", func(r chi.Router) {
			r.Get("/", controllers.ExpenseCategoryList(categoryService, logg))
			r.Post("/", controllers.ExpenseCategoryCreate(categoryService, logg))
			r.Get("/{categoryId}", controllers.ExpenseCategoryGet(categoryService, logg))
			r.Put("/{categoryId}", controllers.ExpenseCategoryUpdate(categoryService, logg))
			r.Delete("/{categoryId}", controllers.ExpenseCategoryDelete(categoryService, logg))
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", controllers.ExpenseList(expenseService, logg))
			r.Post("/", controllers.ExpenseCreate(expenseService, logg))
			r.Get("/{expenseId}", controllers.ExpenseGet(expenseService, logg))
			r.Put("/{expenseId}", controllers.ExpenseUpdate(expenseService, logg))
			r.Delete("/{expenseId}", controllers.ExpenseDelete(expenseService, logg))
		})
	})

	return r
}
