package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailops/salescope/pkg/store/openrouter"
)

// Generator is the text-generation collaborator slice the translator needs.
type Generator interface {
	Generate(ctx context.Context, req openrouter.GenerateRequest) (string, error)
}

// Translator turns a user command (Indonesian or English) into clear English
// for downstream pipeline synthesis. Translation failures are never fatal:
// the translator falls back to a deterministic rendering of the detected
// intent, or to the original command.
type Translator struct {
	gen     Generator
	model   string
	timeout time.Duration
}

func New(gen Generator, model string) *Translator {
	return &Translator{
		gen:     gen,
		model:   model,
		timeout: 30 * time.Second,
	}
}

// Translate returns the best available English rendering of the command.
// The AI translation is accepted only when it preserves every signal the
// original command carried (months, dimensions, years); otherwise the
// canonical rendering built from those signals is used instead.
func (t *Translator) Translate(ctx context.Context, command string) string {
	logger := zerolog.Ctx(ctx)
	in := detectIntent(command)

	translated, err := t.gen.Generate(ctx, openrouter.GenerateRequest{
		Model:       t.model,
		Prompt:      translationPrompt(command),
		Temperature: 0.3,
		Timeout:     t.timeout,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("translation unavailable, using deterministic rendering")
		if in.empty() {
			return command
		}
		return in.canonicalCommand()
	}

	translated = strings.TrimSpace(strings.Trim(strings.TrimSpace(translated), `"`))
	if translated == "" {
		if in.empty() {
			return command
		}
		return in.canonicalCommand()
	}

	if !in.empty() && !in.satisfiedBy(translated) {
		logger.Warn().
			Str("translated", translated).
			Msg("translation dropped intent signals, using deterministic rendering")
		return in.canonicalCommand()
	}
	return translated
}

func translationPrompt(command string) string {
	return fmt.Sprintf(`Translate the following command to clear English for database/analytics queries.
Be precise and don't add information that wasn't in the original command.

Important guidelines:
- "bulan juni" = "June" or "month of June", not "per month"
- "per lokasi" = "by location" or "per location"
- Don't add years unless specifically mentioned
- Keep it simple and accurate

Command: %q

Return only the translated command, nothing else.`, command)
}
