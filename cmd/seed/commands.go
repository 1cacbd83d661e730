package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/sauce-pos/internal/stock"
	"github.com/angelmondragon/sauce-pos/internal/stores"
	"github.com/angelmondragon/sauce-pos/pkg/logger"
)

const defaultStoreName = "หน้าร้าน"

type seeder struct {
	stock  stock.Service
	stores stores.Service
	logg   *logger.Logger
}

type openFunc func(ctx context.Context) (*seeder, func() error, error)

func newRootCommand(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Bootstrap reference data for a fresh database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newSauceCommand(open),
		newStoreCommand(open),
		newAllCommand(open),
	)
	return root
}

func newSauceCommand(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "sauce",
		Short: "Create a zero-quantity stock row for every sauce category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSeeder(cmd, open, func(s *seeder) error {
				return s.seedSauce(cmd)
			})
		},
	}
}

func newStoreCommand(open openFunc) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Create the default store when no store exists yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSeeder(cmd, open, func(s *seeder) error {
				return s.seedStore(cmd, name)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", defaultStoreName, "name of the default store")
	return cmd
}

func newAllCommand(open openFunc) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Seed sauce stock and the default store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSeeder(cmd, open, func(s *seeder) error {
				if err := s.seedSauce(cmd); err != nil {
					return err
				}
				return s.seedStore(cmd, name)
			})
		},
	}
	cmd.Flags().StringVar(&name, "store-name", defaultStoreName, "name of the default store")
	return cmd
}

func withSeeder(cmd *cobra.Command, open openFunc, fn func(*seeder) error) (err error) {
	s, closeFn, err := open(cmd.Context())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

func (s *seeder) seedSauce(cmd *cobra.Command) error {
	rows, err := s.stock.InitSauceStock(cmd.Context())
	if err != nil {
		return fmt.Errorf("init sauce stock: %w", err)
	}
	for _, row := range rows {
		fmt.Fprintf(cmd.OutOrStdout(), "sauce %s (%s): %d\n", row.SauceType, row.Label, row.Quantity)
	}
	return nil
}

func (s *seeder) seedStore(cmd *cobra.Command, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("store name is required")
	}
	existing, err := s.stores.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list stores: %w", err)
	}
	if len(existing) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "store %q already present, skipping\n", existing[0].Name)
		return nil
	}
	store, err := s.stores.Create(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(cmd.Context(), "store_id", store.ID.String()), "seed.store_created")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created store %q\n", store.Name)
	return nil
}
