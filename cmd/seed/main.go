package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	products "github.com/angelmondragon/sauce-pos/internal/products"
	"github.com/angelmondragon/sauce-pos/internal/stock"
	"github.com/angelmondragon/sauce-pos/internal/stores"
	"github.com/angelmondragon/sauce-pos/pkg/config"
	"github.com/angelmondragon/sauce-pos/pkg/db"
	"github.com/angelmondragon/sauce-pos/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCommand(openFromEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openFromEnv connects using the SAUCEPOS_* environment and returns the
// services the seed commands write through.
func openFromEnv(ctx context.Context) (*seeder, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, nil, err
	}
	s, err := newSeeder(client, logg)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return s, client.Close, nil
}

func newSeeder(client *db.Client, logg *logger.Logger) (*seeder, error) {
	conn := client.DB()
	productRepo := products.NewRepository(conn)
	storeRepo := stores.NewRepository(conn)
	stockService, err := stock.NewService(client, stock.NewRepository(conn), productRepo, storeRepo)
	if err != nil {
		return nil, err
	}
	storeService, err := stores.NewService(storeRepo)
	if err != nil {
		return nil, err
	}
	return &seeder{stock: stockService, stores: storeService, logg: logg}, nil
}
