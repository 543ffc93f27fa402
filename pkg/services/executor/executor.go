package executor

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/retailops/salescope/pkg/models/domain"
)

// Store is the slice of the document store the executor needs.
type Store interface {
	Aggregate(ctx context.Context, collection string, pipeline []map[string]any) ([]map[string]any, error)
}

// Executor runs pipelines and normalizes the result shape for serialization.
// Zero results are not a failure here; the caller hands those to the
// recovery engine.
type Executor struct {
	store Store
}

func New(store Store) *Executor {
	return &Executor{store: store}
}

// Execute runs the pipeline, converts driver-specific unique ids to plain
// strings and reports elapsed wall time.
func (e *Executor) Execute(ctx context.Context, collection string, pipeline domain.Pipeline) ([]map[string]any, time.Duration, error) {
	start := time.Now()
	results, err := e.store.Aggregate(ctx, collection, pipeline)
	if err != nil {
		return nil, time.Since(start), fmt.Errorf("execute pipeline on %s: %w", collection, err)
	}
	for _, doc := range results {
		normalizeIDs(doc)
	}
	return results, time.Since(start), nil
}

func normalizeIDs(doc map[string]any) {
	for key, val := range doc {
		switch v := val.(type) {
		case primitive.ObjectID:
			doc[key] = v.Hex()
		case map[string]any:
			normalizeIDs(v)
		case []any:
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					normalizeIDs(m)
				}
			}
		}
	}
}
