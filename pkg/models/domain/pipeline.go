package domain

import "time"

// Pipeline is an ordered list of aggregation stages. Stages are kept as plain
// maps because generated pipelines arrive as loosely-typed JSON; the engine
// only ever inspects stage operator names, never stage internals.
type Pipeline []map[string]any

// PipelineSource records how a pipeline came to be. Downstream consumers use
// it to distinguish "answered" from "answered the closest available question".
type PipelineSource string

const (
	SourceTemplate  PipelineSource = "template"
	SourceGenerated PipelineSource = "generated"
	SourceFallback  PipelineSource = "fallback"
	SourceRecovery  PipelineSource = "recovery"
)

// HasStage reports whether any stage in the pipeline uses the given operator
// (e.g. "$limit").
func (p Pipeline) HasStage(operator string) bool {
	for _, stage := range p {
		if _, ok := stage[operator]; ok {
			return true
		}
	}
	return false
}

// WithLimit returns the pipeline with a trailing $limit stage appended, unless
// one is already present anywhere in the pipeline. A nil limit means "all
// results" and leaves the pipeline unmodified.
func (p Pipeline) WithLimit(limit *int) Pipeline {
	if limit == nil || p.HasStage("$limit") {
		return p
	}
	out := make(Pipeline, len(p), len(p)+1)
	copy(out, p)
	return append(out, map[string]any{"$limit": *limit})
}

// SynthesizedPipeline couples a pipeline with its provenance.
type SynthesizedPipeline struct {
	Stages Pipeline
	Source PipelineSource
}

// PipelineRequest is one analytics question.
type PipelineRequest struct {
	Command    string
	Collection string // optional target-collection override
	Limit      *int   // nil = return all results
}

// ExecutionResult is the outcome of running a pipeline, possibly after
// recovery.
type ExecutionResult struct {
	Pipeline    Pipeline
	Source      PipelineSource
	Results     []map[string]any
	Elapsed     time.Duration
	Recovered   bool
	Explanation string
}
