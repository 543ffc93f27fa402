package query

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/recovery"
	"github.com/retailops/salescope/pkg/services/router"
	"github.com/retailops/salescope/pkg/services/schema"
	"github.com/retailops/salescope/pkg/services/synthesizer"
)

// Translator renders a command as clear English.
type Translator interface {
	Translate(ctx context.Context, command string) string
}

// Synthesizer produces an executable pipeline for a command.
type Synthesizer interface {
	Synthesize(ctx context.Context, req synthesizer.Request) (domain.SynthesizedPipeline, error)
}

// Maintainer backfills derived temporal fields on the raw collection.
type Maintainer interface {
	EnsureDerivedFields(ctx context.Context, collection string) (int, error)
}

// Executor runs a pipeline.
type Executor interface {
	Execute(ctx context.Context, collection string, pipeline domain.Pipeline) ([]map[string]any, time.Duration, error)
}

// Recoverer finds the closest available answer for an empty result.
type Recoverer interface {
	Recover(ctx context.Context, originalCommand, translatedCommand string) recovery.Outcome
}

// Describer narrates results for the response description.
type Describer interface {
	Describe(ctx context.Context, command string, results []map[string]any, pipeline domain.Pipeline) string
}

// Counter reports collection sizes.
type Counter interface {
	Count(ctx context.Context, collection string) (int64, error)
}

// Service runs one analytics question end to end:
// route -> translate -> synthesize -> maintain -> execute -> recover.
// Every stage waits on its predecessor; there is no internal parallelism.
type Service struct {
	translator Translator
	synth      Synthesizer
	maintainer Maintainer
	exec       Executor
	recoverer  Recoverer
	describer  Describer
	counter    Counter
}

type Dependencies struct {
	Translator Translator
	Synth      Synthesizer
	Maintainer Maintainer
	Executor   Executor
	Recoverer  Recoverer
	Describer  Describer
	Counter    Counter
}

func NewService(deps Dependencies) *Service {
	return &Service{
		translator: deps.Translator,
		synth:      deps.Synth,
		maintainer: deps.Maintainer,
		exec:       deps.Executor,
		recoverer:  deps.Recoverer,
		describer:  deps.Describer,
		counter:    deps.Counter,
	}
}

// Outcome is everything the query endpoint reports about one request.
type Outcome struct {
	OriginalCommand       string
	TranslatedCommand     string
	Pipeline              domain.Pipeline
	Source                domain.PipelineSource
	Results               []map[string]any
	Description           string
	Elapsed               time.Duration
	CollectionUsed        string
	DocumentsInCollection int64
	AlternativeUsed       bool
	Explanation           string
}

// Execute answers one request. An explicit collection override is honored as
// given; otherwise the router may switch to a rollup when its keyword score
// is confident enough.
func (s *Service) Execute(ctx context.Context, req domain.PipelineRequest) (Outcome, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	if req.Command == "" {
		return Outcome{}, fmt.Errorf("command is required")
	}

	collection := req.Collection
	if collection == "" {
		collection = schema.RawCollection
		if suggested, score := router.Route(req.Command); score >= router.MinScore {
			logger.Info().
				Str("rollup", suggested).
				Int("score", score).
				Msg("routing to optimized collection")
			collection = suggested
		}
	}

	translated := s.translator.Translate(ctx, req.Command)

	synthesized, err := s.synth.Synthesize(ctx, synthesizer.Request{
		OriginalCommand:   req.Command,
		TranslatedCommand: translated,
		Collection:        collection,
		Limit:             req.Limit,
	})
	if err != nil {
		return Outcome{OriginalCommand: req.Command, TranslatedCommand: translated}, err
	}

	if collection == schema.RawCollection {
		if _, err := s.maintainer.EnsureDerivedFields(ctx, collection); err != nil {
			// The pipeline may still work without the derived fields.
			logger.Warn().Err(err).Msg("derived-field maintenance failed, continuing")
		}
	}

	docCount, err := s.counter.Count(ctx, collection)
	if err != nil {
		logger.Warn().Err(err).Str("collection", collection).Msg("collection count unavailable")
	}

	results, _, err := s.exec.Execute(ctx, collection, synthesized.Stages)
	if err != nil {
		return Outcome{OriginalCommand: req.Command, TranslatedCommand: translated}, err
	}

	outcome := Outcome{
		OriginalCommand:       req.Command,
		TranslatedCommand:     translated,
		Pipeline:              synthesized.Stages,
		Source:                synthesized.Source,
		Results:               results,
		CollectionUsed:        collection,
		DocumentsInCollection: docCount,
	}

	if len(results) == 0 {
		recovered := s.recoverer.Recover(ctx, req.Command, translated)
		if recovered.Recovered {
			outcome.Results = recovered.Results
			outcome.Pipeline = recovered.Pipeline
			outcome.Source = domain.SourceRecovery
			outcome.AlternativeUsed = true
			outcome.Explanation = recovered.Explanation
		}
	}

	outcome.Description = s.describer.Describe(ctx, req.Command, outcome.Results, outcome.Pipeline)
	outcome.Elapsed = time.Since(start)
	return outcome, nil
}
