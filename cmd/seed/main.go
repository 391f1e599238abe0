package main

import (
	"os"

	"github.com/indra-store/internal/config"
	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/logger"
	"github.com/indra-store/internal/models"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Seed the storefront database",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newCategoriesCommand(), newDemoCommand())
	return root
}

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Create the default categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openDatabase(); err != nil {
				return err
			}
			created, err := models.SeedCategories(models.DB, models.DefaultCategories())
			if err != nil {
				return err
			}
			cmd.Printf("categories created: %d\n", created)
			return nil
		},
	}
}

func newDemoCommand() *cobra.Command {
	var lowStock int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Create the default categories and demo products",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openDatabase(); err != nil {
				return err
			}
			if _, err := models.SeedCategories(models.DB, models.DefaultCategories()); err != nil {
				return err
			}
			created, err := models.SeedProducts(models.DB, models.DemoProducts(), lowStock)
			if err != nil {
				return err
			}
			cmd.Printf("demo products created: %d\n", created)
			return nil
		},
	}
	cmd.Flags().IntVar(&lowStock, "low-stock", constants.DefaultLowStockThreshold, "low stock threshold for seeded inventory")
	return cmd
}

func openDatabase() error {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return err
	}
	return models.AutoMigrate()
}
