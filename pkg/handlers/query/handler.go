package query

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/retailops/salescope/pkg/models/api"
	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/query"
	"github.com/retailops/salescope/pkg/services/synthesizer"
)

// Service answers one analytics question end to end.
type Service interface {
	Execute(ctx context.Context, req domain.PipelineRequest) (query.Outcome, error)
}

// Pinger reports reachability of an external collaborator.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	service   Service
	store     Pinger
	generator Pinger
}

func NewHandler(service Service, store, generator Pinger) *Handler {
	return &Handler{
		service:   service,
		store:     store,
		generator: generator,
	}
}

// Execute handles POST /api/v1/aggregate/execute.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.AggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, api.ErrorResponse{
			Error:   "invalid request body",
			Details: err.Error(),
		})
		return
	}
	if req.Command == "" {
		writeJSON(ctx, w, http.StatusBadRequest, api.ErrorResponse{
			Error: "missing required field: command",
		})
		return
	}

	outcome, err := h.service.Execute(ctx, domain.PipelineRequest{
		Command:    req.Command,
		Collection: req.Collection,
		Limit:      req.Limit,
	})
	if err != nil {
		logger.Error().Err(err).Str("command", req.Command).Msg("query execution failed")
		status := http.StatusInternalServerError
		if errors.Is(err, synthesizer.ErrNoFallback) {
			status = http.StatusBadRequest
		}
		writeJSON(ctx, w, status, api.AggregateResponse{
			OriginalCommand:   outcome.OriginalCommand,
			TranslatedCommand: outcome.TranslatedCommand,
			Error:             err.Error(),
		})
		return
	}

	writeJSON(ctx, w, http.StatusOK, api.AggregateResponse{
		Success:               true,
		OriginalCommand:       outcome.OriginalCommand,
		TranslatedCommand:     outcome.TranslatedCommand,
		GeneratedPipeline:     outcome.Pipeline,
		Results:               outcome.Results,
		Description:           outcome.Description,
		TotalResults:          len(outcome.Results),
		ExecutionTime:         outcome.Elapsed.Seconds(),
		CollectionUsed:        outcome.CollectionUsed,
		DocumentsInCollection: outcome.DocumentsInCollection,
		AlternativeUsed:       outcome.AlternativeUsed,
		Explanation:           outcome.Explanation,
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	services := map[string]bool{
		"mongodb":    h.store.Ping(ctx) == nil,
		"ai_service": h.generator.Ping(ctx) == nil,
	}
	status := "healthy"
	for _, ok := range services {
		if !ok {
			status = "degraded"
		}
	}
	writeJSON(ctx, w, http.StatusOK, api.HealthResponse{
		Status:   status,
		Services: services,
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}
