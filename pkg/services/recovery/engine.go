package recovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/schema"
	"github.com/retailops/salescope/pkg/services/synthesizer"
	"github.com/retailops/salescope/pkg/services/translator"
	"github.com/retailops/salescope/pkg/store/openrouter"
)

// Generator is the text-generation collaborator slice the engine needs.
type Generator interface {
	Generate(ctx context.Context, req openrouter.GenerateRequest) (string, error)
}

// Executor runs a pipeline against a collection.
type Executor interface {
	Execute(ctx context.Context, collection string, pipeline domain.Pipeline) ([]map[string]any, time.Duration, error)
}

// Engine finds the closest available answer when the original pipeline comes
// back empty: profile the raw data, ask the collaborator for an alternative
// that only uses dimensions that exist, and fall back to canned pipelines.
// Internal failures at any sub-stage advance to the next strategy; the engine
// never raises them to the caller.
type Engine struct {
	gen     Generator
	exec    Executor
	model   string
	timeout time.Duration
}

func NewEngine(gen Generator, exec Executor, model string) *Engine {
	return &Engine{
		gen:     gen,
		exec:    exec,
		model:   model,
		timeout: 60 * time.Second,
	}
}

// Outcome is the terminal state of one recovery run. Recovered is false only
// when every strategy came back empty, in which case the original empty
// result stands.
type Outcome struct {
	Recovered   bool
	Results     []map[string]any
	Pipeline    domain.Pipeline
	Explanation string
}

// Recover walks the strategy ladder for a command whose pipeline returned
// zero rows. Alternatives run against the raw collection because that is
// where the full dimensional space lives.
func (e *Engine) Recover(ctx context.Context, originalCommand, translatedCommand string) Outcome {
	logger := zerolog.Ctx(ctx)
	unmet := describeUnmet(originalCommand, translatedCommand)

	profile, err := e.profile(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("data profiling failed, skipping generated alternative")
	} else if outcome, ok := e.generatedAlternative(ctx, profile, originalCommand, translatedCommand, unmet); ok {
		return outcome
	}

	for _, alt := range fallbackAlternatives() {
		results, _, err := e.exec.Execute(ctx, schema.RawCollection, alt.pipeline)
		if err != nil {
			logger.Warn().Err(err).Str("alternative", alt.name).Msg("fallback alternative failed")
			continue
		}
		if len(results) == 0 {
			continue
		}
		logger.Info().Str("alternative", alt.name).Msg("recovered with fallback alternative")
		return Outcome{
			Recovered:   true,
			Results:     results,
			Pipeline:    alt.pipeline,
			Explanation: fmt.Sprintf("No data found for the original query%s. Showing: %s.", unmet, alt.name),
		}
	}

	return Outcome{}
}

func (e *Engine) generatedAlternative(ctx context.Context, profile domain.DataProfile, originalCommand, translatedCommand, unmet string) (Outcome, bool) {
	logger := zerolog.Ctx(ctx)

	content, err := e.gen.Generate(ctx, openrouter.GenerateRequest{
		Model:       e.model,
		Prompt:      alternativePrompt(profile, originalCommand, translatedCommand),
		Temperature: 0.2,
		Timeout:     e.timeout,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("alternative generation unavailable")
		return Outcome{}, false
	}

	pipeline, err := synthesizer.ParsePipeline(content)
	if err != nil {
		logger.Warn().Err(err).Msg("alternative pipeline unparseable")
		return Outcome{}, false
	}

	results, _, err := e.exec.Execute(ctx, schema.RawCollection, pipeline)
	if err != nil {
		logger.Warn().Err(err).Msg("alternative pipeline failed to execute")
		return Outcome{}, false
	}
	if len(results) == 0 {
		return Outcome{}, false
	}

	logger.Info().Int("results", len(results)).Msg("recovered with generated alternative")
	return Outcome{
		Recovered:   true,
		Results:     results,
		Pipeline:    pipeline,
		Explanation: fmt.Sprintf("Original query returned no results%s. Showing alternative analysis based on available data.", unmet),
	}, true
}

// describeUnmet names the constraint the original query could not satisfy,
// so consumers can tell which question was actually answered.
func describeUnmet(originalCommand, translatedCommand string) string {
	months := translator.Months(originalCommand + " " + translatedCommand)
	if len(months) == 0 {
		return ""
	}
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = m.String()
	}
	return " (no rows matched " + strings.Join(names, ", ") + ")"
}
