package synthesizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/schema"
	"github.com/retailops/salescope/pkg/store/openrouter"
)

// Generator is the text-generation collaborator slice the synthesizer needs.
type Generator interface {
	Generate(ctx context.Context, req openrouter.GenerateRequest) (string, error)
}

// Synthesizer produces an executable pipeline for a command: curated template
// first, AI generation second, deterministic keyword fallback last.
type Synthesizer struct {
	gen     Generator
	model   string
	timeout time.Duration
}

func New(gen Generator, model string) *Synthesizer {
	return &Synthesizer{
		gen:     gen,
		model:   model,
		timeout: 60 * time.Second,
	}
}

// Request carries everything one synthesis needs.
type Request struct {
	OriginalCommand   string
	TranslatedCommand string
	Collection        string
	Limit             *int
}

// Synthesize returns a pipeline tagged with how it was obtained. A caller
// limit is appended as a final $limit stage unless the pipeline already
// contains one; a nil limit leaves the pipeline untouched ("all results").
func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (domain.SynthesizedPipeline, error) {
	logger := zerolog.Ctx(ctx)
	catalog := schema.CatalogFor(req.Collection)

	if stages, ok := matchTemplate(req.TranslatedCommand, req.Collection); ok {
		logger.Info().Str("collection", req.Collection).Msg("template pipeline matched")
		return domain.SynthesizedPipeline{
			Stages: stages.WithLimit(req.Limit),
			Source: domain.SourceTemplate,
		}, nil
	}

	stages, genErr := s.generate(ctx, req.TranslatedCommand, catalog)
	if genErr == nil {
		return domain.SynthesizedPipeline{
			Stages: stages.WithLimit(req.Limit),
			Source: domain.SourceGenerated,
		}, nil
	}

	var parseErr *ParseError
	if errors.As(genErr, &parseErr) {
		logger.Warn().
			Err(parseErr).
			Str("raw_response", parseErr.Raw).
			Msg("generated pipeline unparseable, trying fallback")
	} else {
		logger.Warn().Err(genErr).Msg("pipeline generation failed, trying fallback")
	}

	fallback, err := fallbackPipeline(req.OriginalCommand, req.TranslatedCommand, req.Collection)
	if err != nil {
		return domain.SynthesizedPipeline{}, fmt.Errorf("command %q: %w (generation: %v)", req.OriginalCommand, err, genErr)
	}
	return domain.SynthesizedPipeline{
		Stages: fallback.WithLimit(req.Limit),
		Source: domain.SourceFallback,
	}, nil
}

func (s *Synthesizer) generate(ctx context.Context, command string, catalog schema.Catalog) (domain.Pipeline, error) {
	content, err := s.gen.Generate(ctx, openrouter.GenerateRequest{
		Model:       s.model,
		Prompt:      buildPrompt(command, catalog),
		Temperature: 0.1,
		Timeout:     s.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("generate pipeline: %w", err)
	}

	pipeline, err := ParsePipeline(content)
	if err != nil {
		return nil, err
	}
	if err := validateFields(pipeline, catalog); err != nil {
		return nil, fmt.Errorf("generated pipeline rejected: %w", err)
	}
	return pipeline, nil
}
