package synthesizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/retailops/salescope/pkg/models/domain"
)

// ParseError means the collaborator's output could not be read as a pipeline.
// The raw text travels with the error so it can be logged for diagnosis.
type ParseError struct {
	Raw   string
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse generated pipeline: %v", e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }

// ParsePipeline extracts a pipeline from free-form collaborator output. The
// model is expected to embed a JSON array, possibly wrapped in prose or
// markdown fences, so parsing is deliberately permissive: take the first
// bracket pair, strip newlines, decode; failing that, decode the whole body.
func ParsePipeline(content string) (domain.Pipeline, error) {
	content = strings.TrimSpace(content)

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start != -1 && end > start {
		candidate := content[start : end+1]
		candidate = strings.ReplaceAll(candidate, "\n", " ")
		candidate = strings.ReplaceAll(candidate, "\r", "")

		var pipeline domain.Pipeline
		if err := json.Unmarshal([]byte(candidate), &pipeline); err == nil {
			return pipeline, nil
		}
	}

	var pipeline domain.Pipeline
	if err := json.Unmarshal([]byte(content), &pipeline); err != nil {
		return nil, &ParseError{Raw: content, cause: err}
	}
	return pipeline, nil
}
