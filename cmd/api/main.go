package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/sauce-pos/api/routes"
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
	"github.com/angelmondragon/sauce-pos/pkg/migrate"
	"github.com/angelmondragon/sauce-pos/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
	} else {
		logg.Warn(ctx, "redis not configured, idempotency keys disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	conn := dbClient.DB()
	productRepo := products.NewRepository(conn)
	storeRepo := stores.NewRepository(conn)
	stockRepo := stock.NewRepository(conn)
	saleRepo := sales.NewRepository(conn)
	expenseRepo := expenses.NewRepository(conn)

	productService, err := products.NewService(productRepo)
	if err != nil {
		return err
	}
	storeService, err := stores.NewService(storeRepo)
	if err != nil {
		return err
	}
	stockService, err := stock.NewService(dbClient, stockRepo, productRepo, storeRepo)
	if err != nil {
		return err
	}
	saleService, err := sales.NewService(dbClient, saleRepo, stockRepo, productRepo,
		sales.WithMetrics(metrics.NewSaleMetrics(reg)),
		sales.WithLogger(logg),
	)
	if err != nil {
		return err
	}
	reportService, err := reports.NewService(saleRepo, cfg.Reports.Location())
	if err != nil {
		return err
	}
	categoryService, err := expenses.NewCategoryService(expenseRepo)
	if err != nil {
		return err
	}
	expenseService, err := expenses.NewService(expenseRepo)
	if err != nil {
		return err
	}

	router := routes.NewRouter(cfg, logg, dbClient, redisClient, metrics.NewHTTPMetrics(reg), reg,
		productService, storeService, stockService, saleService, reportService, categoryService, expenseService)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})

	server := &http.Server{Addr: addr, Handler: router}
	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logg.Info(ctx, "api server stopped")
	return nil
}
