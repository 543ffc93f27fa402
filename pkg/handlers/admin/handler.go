package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/retailops/salescope/pkg/models/api"
	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/pipelines"
	"github.com/retailops/salescope/pkg/services/rollup"
	"github.com/retailops/salescope/pkg/services/schema"
)

// Builder is the rollup builder slice the admin surface needs.
type Builder interface {
	BuildOne(ctx context.Context, name string) error
	BuildAll(ctx context.Context) domain.BuildReport
	Status(ctx context.Context) []domain.RollupStatus
}

// Executor runs a pipeline against a collection.
type Executor interface {
	Execute(ctx context.Context, collection string, pipeline domain.Pipeline) ([]map[string]any, time.Duration, error)
}

type Handler struct {
	builder Builder
	exec    Executor
}

func NewHandler(builder Builder, exec Executor) *Handler {
	return &Handler{builder: builder, exec: exec}
}

// ListRollups handles GET /api/v1/aggregate/collections.
func (h *Handler) ListRollups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	statuses := h.builder.Status(ctx)
	rollups := make(map[string]api.RollupInfo, len(statuses))
	for _, s := range statuses {
		info := api.RollupInfo{
			Description:   s.Description,
			DocumentCount: s.DocumentCount,
			SampleQueries: schema.CatalogFor(s.Name).SampleQueries,
			Error:         s.BuildError,
		}
		if s.LastUpdated != nil {
			info.LastUpdated = s.LastUpdated.Format(time.RFC3339)
		}
		rollups[s.Name] = info
	}

	writeJSON(ctx, w, http.StatusOK, api.RollupListResponse{
		Success:          true,
		Rollups:          rollups,
		TotalCollections: len(rollups),
	})
}

// RebuildAll handles POST /api/v1/aggregate/collections.
func (h *Handler) RebuildAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report := h.builder.BuildAll(ctx)
	failed := make([]string, 0, len(report.Failed))
	for name := range report.Failed {
		failed = append(failed, name)
	}

	message := "all collections rebuilt successfully"
	if len(failed) > 0 {
		message = "some collections failed to rebuild"
	}
	writeJSON(ctx, w, http.StatusOK, api.RebuildResponse{
		Success:      len(failed) == 0,
		Message:      message,
		SuccessCount: report.SuccessCount(),
		Failed:       failed,
	})
}

// RebuildOne handles POST /api/v1/aggregate/collections/{name}.
func (h *Handler) RebuildOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	name := chi.URLParam(r, "name")

	if err := h.builder.BuildOne(ctx, name); err != nil {
		logger.Error().Err(err).Str("rollup", name).Msg("rollup rebuild failed")
		status := http.StatusBadRequest
		if errors.Is(err, rollup.ErrUnknownRollup) {
			status = http.StatusNotFound
		}
		writeJSON(ctx, w, status, api.ErrorResponse{
			Error: fmt.Sprintf("failed to rebuild collection %s", name),
		})
		return
	}

	writeJSON(ctx, w, http.StatusOK, api.RebuildResponse{
		Success:      true,
		Message:      fmt.Sprintf("collection %s rebuilt successfully", name),
		SuccessCount: 1,
	})
}

// ListPipelines handles GET /api/v1/aggregate/pipelines.
func (h *Handler) ListPipelines(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, api.PipelineListResponse{
		Success:              true,
		AvailablePipelines:   pipelines.Names(),
		PipelineDescriptions: pipelines.Descriptions(),
	})
}

// RunPipeline handles POST /api/v1/aggregate/pipelines/{name}.
func (h *Handler) RunPipeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	name := chi.URLParam(r, "name")

	pipeline, err := pipelines.Lookup(name)
	if err != nil {
		writeJSON(ctx, w, http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		return
	}

	results, _, err := h.exec.Execute(ctx, schema.RawCollection, pipeline)
	if err != nil {
		logger.Error().Err(err).Str("pipeline", name).Msg("canned pipeline failed")
		writeJSON(ctx, w, http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(ctx, w, http.StatusOK, api.PipelineRunResponse{
		Success:      true,
		PipelineName: name,
		Results:      results,
		TotalResults: len(results),
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}
