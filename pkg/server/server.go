package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminhandler "github.com/retailops/salescope/pkg/handlers/admin"
	queryhandler "github.com/retailops/salescope/pkg/handlers/query"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	salescopemiddleware "github.com/retailops/salescope/pkg/server/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Query     queryhandler.Service
	Store     queryhandler.Pinger
	Generator queryhandler.Pinger
	Builder   adminhandler.Builder
	Executor  adminhandler.Executor
}
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	qHandler := queryhandler.NewHandler(config.Dependencies.Query, config.Dependencies.Store, config.Dependencies.Generator)
	aHandler := adminhandler.NewHandler(config.Dependencies.Builder, config.Dependencies.Executor)

	router := chi.NewRouter()

	router.Use(salescopemiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1/aggregate", func(r chi.Router) {
		r.Post("/execute", qHandler.Execute)
		r.Get("/collections", aHandler.ListRollups)
		r.Post("/collections", aHandler.RebuildAll)
		r.Post("/collections/{name}", aHandler.RebuildOne)
		r.Get("/pipelines", aHandler.ListPipelines)
		r.Post("/pipelines/{name}", aHandler.RunPipeline)
	})
	router.Get("/health", qHandler.Health)

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
