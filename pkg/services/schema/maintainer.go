package schema

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Store is the slice of the document store the maintainer needs.
type Store interface {
	SampleOne(ctx context.Context, collection string) (map[string]any, error)
	Aggregate(ctx context.Context, collection string, pipeline []map[string]any) ([]map[string]any, error)
	SetFields(ctx context.Context, collection string, id any, fields map[string]any) error
}

// Maintainer backfills the derived month/year fields on the raw collection.
// This is a one-time migration path: once every document carries both fields
// the sample check short-circuits and invocations are no-ops.
type Maintainer struct {
	store Store
}

func NewMaintainer(store Store) *Maintainer {
	return &Maintainer{store: store}
}

// EnsureDerivedFields inspects one sample document and, when month or year is
// absent, computes both for every document still missing either field.
// Returns the number of documents updated.
func (m *Maintainer) EnsureDerivedFields(ctx context.Context, collection string) (int, error) {
	logger := zerolog.Ctx(ctx)

	sample, err := m.store.SampleOne(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("sample %s: %w", collection, err)
	}
	if sample == nil {
		return 0, nil
	}
	_, hasMonth := sample[FieldMonth]
	_, hasYear := sample[FieldYear]
	if hasMonth && hasYear {
		return 0, nil
	}

	missing, err := m.store.Aggregate(ctx, collection, []map[string]any{
		{"$match": map[string]any{
			"$or": []map[string]any{
				{FieldMonth: map[string]any{"$exists": false}},
				{FieldYear: map[string]any{"$exists": false}},
			},
		}},
		{"$project": map[string]any{"Sales Date": 1}},
	})
	if err != nil {
		return 0, fmt.Errorf("find documents missing derived fields: %w", err)
	}

	updated := 0
	for _, doc := range missing {
		date, ok := ParseSalesDate(doc["Sales Date"])
		if !ok {
			logger.Warn().
				Interface("sales_date", doc["Sales Date"]).
				Msg("skipping document with unparseable sales date")
			continue
		}
		err := m.store.SetFields(ctx, collection, doc["_id"], map[string]any{
			FieldMonth: int(date.Month()),
			FieldYear:  date.Year(),
		})
		if err != nil {
			return updated, fmt.Errorf("backfill derived fields: %w", err)
		}
		updated++
	}

	if updated > 0 {
		logger.Info().
			Int("documents", updated).
			Str("collection", collection).
			Msg("backfilled month/year fields")
	}
	return updated, nil
}
