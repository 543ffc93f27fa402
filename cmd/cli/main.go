package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/retailops/salescope/pkg/services/config"
	"github.com/retailops/salescope/pkg/services/rollup"
	"github.com/retailops/salescope/pkg/services/schema"
	mongostore "github.com/retailops/salescope/pkg/store/mongo"
)

var cfgPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "salescope",
		Short: "Manage sales analytics collections",
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file (environment variables apply either way)")

	rebuildCmd := &cobra.Command{
		Use:   "rebuild [rollup]",
		Short: "Rebuild optimized collections (all when no name is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRebuild,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show document counts and last build time per optimized collection",
		RunE:  runStatus,
	}

	var seedCount int
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert synthetic transactions into the raw collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, seedCount)
		},
	}
	seedCmd.Flags().IntVar(&seedCount, "count", 500, "Number of transactions to insert")

	rootCmd.AddCommand(rebuildCmd, statusCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func connect(cmd *cobra.Command) (context.Context, *mongostore.Store, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	store, err := mongostore.Connect(connectCtx, mongostore.Settings{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	return ctx, store, nil
}

func runRebuild(cmd *cobra.Command, args []string) error {
	ctx, store, err := connect(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(context.Background()) }()

	builder := rollup.NewBuilder(store)
	if len(args) == 1 {
		if err := builder.BuildOne(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to rebuild %s: %w", args[0], err)
		}
		fmt.Printf("Rebuilt %s\n", args[0])
		return nil
	}

	report := builder.BuildAll(ctx)
	for _, name := range report.Succeeded {
		fmt.Printf("Rebuilt %s\n", name)
	}
	for name, buildErr := range report.Failed {
		fmt.Printf("Failed %s: %v\n", name, buildErr)
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d collections failed to rebuild",
			len(report.Failed), len(report.Failed)+report.SuccessCount())
	}
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx, store, err := connect(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(context.Background()) }()

	for _, status := range rollup.NewBuilder(store).Status(ctx) {
		updated := "never"
		if status.LastUpdated != nil {
			updated = status.LastUpdated.Format(time.RFC3339)
		}
		if status.BuildError != "" {
			fmt.Printf("%-30s unavailable: %s\n", status.Name, status.BuildError)
			continue
		}
		fmt.Printf("%-30s %8d docs, built %s\n", status.Name, status.DocumentCount, updated)
	}
	return nil
}

var (
	seedLocations = []string{
		"Mall Kelapa Gading", "Grand Indonesia", "Pondok Indah Mall",
		"Central Park", "Senayan City",
	}
	seedProducts = []struct {
		name     string
		category string
		price    decimal.Decimal
	}{
		{"Espresso", "Beverages", decimal.NewFromFloat(25000)},
		{"Cappuccino", "Beverages", decimal.NewFromFloat(35000)},
		{"Croissant", "Bakery", decimal.NewFromFloat(28000)},
		{"Cheesecake", "Desserts", decimal.NewFromFloat(45000)},
		{"Nasi Goreng", "Meals", decimal.NewFromFloat(55000)},
		{"Mie Ayam", "Meals", decimal.NewFromFloat(42000)},
	}
	seedPayments = []string{"Cash", "Credit Card", "Debit Card", "QRIS", "GoPay"}
)

// runSeed writes transactions in the shapes the engine has to tolerate:
// dates as both native types and DD/MM/YYYY strings, totals as both numbers
// and thousand-separated strings.
func runSeed(cmd *cobra.Command, count int) error {
	ctx, store, err := connect(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(context.Background()) }()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	docs := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		product := seedProducts[rng.Intn(len(seedProducts))]
		quantity := 1 + rng.Intn(4)
		total := product.price.Mul(decimal.NewFromInt(int64(quantity)))
		saleDate := start.AddDate(0, 0, rng.Intn(540)).
			Add(time.Duration(8+rng.Intn(13)) * time.Hour)

		doc := map[string]any{
			"Location Name":         seedLocations[rng.Intn(len(seedLocations))],
			"Product Name":          product.name,
			"Product Category Name": product.category,
			"Payment Method":        seedPayments[rng.Intn(len(seedPayments))],
			"Product qty":           quantity,
			"Price":                 product.price.InexactFloat64(),
			"Sales Time":            saleDate.Format("15:04:05"),
		}
		// Alternate raw shapes the way exported data actually arrives.
		if i%2 == 0 {
			doc["Sales Date"] = saleDate
			doc["Total"] = total.InexactFloat64()
			doc["Gross Sales"] = total.InexactFloat64()
		} else {
			doc["Sales Date"] = saleDate.Format("02/01/2006")
			doc["Total"] = formatThousands(total)
			doc["Gross Sales"] = formatThousands(total)
		}
		docs = append(docs, doc)
	}

	inserted, err := store.InsertMany(ctx, schema.RawCollection, docs)
	if err != nil {
		return fmt.Errorf("failed to seed transactions: %w", err)
	}
	fmt.Printf("Inserted %d transactions into %s\n", inserted, schema.RawCollection)
	return nil
}

// formatThousands renders a decimal amount with comma thousand separators,
// e.g. 125000 -> "125,000".
func formatThousands(d decimal.Decimal) string {
	s := d.StringFixed(0)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
