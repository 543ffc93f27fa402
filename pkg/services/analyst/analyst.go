package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/store/openrouter"
)

const unavailable = "Analysis unavailable."

// Generator is the text-generation collaborator slice the analyst needs.
type Generator interface {
	Generate(ctx context.Context, req openrouter.GenerateRequest) (string, error)
}

// Analyst narrates aggregation results as a short business summary for the
// response description. Narration is best-effort: any failure yields a fixed
// placeholder, never an error.
type Analyst struct {
	gen     Generator
	model   string
	timeout time.Duration
}

func New(gen Generator, model string) *Analyst {
	return &Analyst{
		gen:     gen,
		model:   model,
		timeout: 45 * time.Second,
	}
}

func (a *Analyst) Describe(ctx context.Context, command string, results []map[string]any, pipeline domain.Pipeline) string {
	logger := zerolog.Ctx(ctx)

	description, err := a.gen.Generate(ctx, openrouter.GenerateRequest{
		Model:       a.model,
		Prompt:      analysisPrompt(command, results, pipeline),
		Temperature: 0.3,
		Timeout:     a.timeout,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("result narration unavailable")
		return unavailable
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return unavailable
	}
	return description
}

func analysisPrompt(command string, results []map[string]any, pipeline domain.Pipeline) string {
	pipelineJSON, _ := json.MarshalIndent(pipeline, "", "  ")
	resultsJSON, _ := json.MarshalIndent(results, "", "  ")

	return fmt.Sprintf(`You are a business analytics expert. Analyze the following aggregation results and provide meaningful business insight.

User request: %q

Aggregation pipeline used: %s

Results: %s

Provide a comprehensive business analysis covering:
1. Key findings and trends
2. Best performers and their metrics
3. Business insight and implications
4. Recommendations based on the data

Write in a professional, analytical tone suitable for business stakeholders.
Keep it concise but informative (3-5 paragraphs maximum).`,
		command, pipelineJSON, resultsJSON)
}
