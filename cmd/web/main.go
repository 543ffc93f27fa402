package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/retailops/salescope/pkg/server"
	"github.com/retailops/salescope/pkg/services/analyst"
	"github.com/retailops/salescope/pkg/services/config"
	"github.com/retailops/salescope/pkg/services/executor"
	"github.com/retailops/salescope/pkg/services/query"
	"github.com/retailops/salescope/pkg/services/recovery"
	"github.com/retailops/salescope/pkg/services/rollup"
	"github.com/retailops/salescope/pkg/services/schema"
	"github.com/retailops/salescope/pkg/services/synthesizer"
	"github.com/retailops/salescope/pkg/services/translator"
	mongostore "github.com/retailops/salescope/pkg/store/mongo"
	"github.com/retailops/salescope/pkg/store/openrouter"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the sales analytics web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file (environment variables apply either way)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	store, err := mongostore.Connect(connectCtx, mongostore.Settings{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer func() { _ = store.Close(context.Background()) }()
	logger.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	generator := openrouter.NewClient(openrouter.Settings{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
	})
	if cfg.AI.APIKey == "" {
		logger.Warn().Msg("no AI api key configured, generation calls will fail over to deterministic fallbacks")
	}

	exec := executor.New(store)
	queryService := query.NewService(query.Dependencies{
		Translator: translator.New(generator, cfg.AI.TranslateModel),
		Synth:      synthesizer.New(generator, cfg.AI.PipelineModel),
		Maintainer: schema.NewMaintainer(store),
		Executor:   exec,
		Recoverer:  recovery.NewEngine(generator, exec, cfg.AI.AlternativeModel),
		Describer:  analyst.New(generator, cfg.AI.AnalysisModel),
		Counter:    store,
	})

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Query:     queryService,
			Store:     store,
			Generator: generator,
			Builder:   rollup.NewBuilder(store),
			Executor:  exec,
		},
	})

	return webAPI.Start()
}
