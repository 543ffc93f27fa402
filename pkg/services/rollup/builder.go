package rollup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/retailops/salescope/pkg/models/domain"
	mongostore "github.com/retailops/salescope/pkg/store/mongo"
)

// shadowSuffix names the staging collection a rollup is built into before the
// atomic swap. Readers keep seeing the previous rollup until the rename.
const shadowSuffix = "__building"

var ErrUnknownRollup = errors.New("unknown rollup")

// Store is the slice of the document store the builder needs.
type Store interface {
	Aggregate(ctx context.Context, collection string, pipeline []map[string]any) ([]map[string]any, error)
	Drop(ctx context.Context, collection string) error
	InsertMany(ctx context.Context, collection string, docs []map[string]any) (int, error)
	CreateIndexes(ctx context.Context, collection string, indexes [][]mongostore.IndexField) error
	Rename(ctx context.Context, from, to string) error
	Count(ctx context.Context, collection string) (int64, error)
	FindOneSorted(ctx context.Context, collection, sortField string) (map[string]any, error)
}

// Builder materializes rollup collections from the raw source. Rebuilds of
// the same rollup must be serialized by the operator; concurrent readers are
// safe because the swap is a single rename.
type Builder struct {
	store  Store
	source string
	now    func() time.Time
}

func NewBuilder(store Store) *Builder {
	return &Builder{
		store:  store,
		source: "transaction_sales",
		now:    time.Now,
	}
}

// BuildOne rebuilds a single named rollup: aggregate from the raw source into
// a shadow collection, index it, then atomically swap it into place.
func (b *Builder) BuildOne(ctx context.Context, name string) error {
	logger := zerolog.Ctx(ctx)

	def, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRollup, name)
	}

	start := time.Now()
	docs, err := b.store.Aggregate(ctx, b.source, def.Pipeline(b.now()))
	if err != nil {
		return fmt.Errorf("build %s: %w", name, err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("build %s: no source data in %s", name, b.source)
	}

	shadow := name + shadowSuffix
	if err := b.store.Drop(ctx, shadow); err != nil {
		return fmt.Errorf("build %s: clear shadow: %w", name, err)
	}
	inserted, err := b.store.InsertMany(ctx, shadow, docs)
	if err != nil {
		return fmt.Errorf("build %s: %w", name, err)
	}
	if err := b.store.CreateIndexes(ctx, shadow, def.Indexes); err != nil {
		return fmt.Errorf("build %s: %w", name, err)
	}
	if err := b.store.Rename(ctx, shadow, name); err != nil {
		return fmt.Errorf("build %s: swap: %w", name, err)
	}

	logger.Info().
		Str("rollup", name).
		Int("documents", inserted).
		Dur("elapsed", time.Since(start)).
		Msg("rollup rebuilt")
	return nil
}

// BuildAll rebuilds every rollup sequentially, continuing past individual
// failures, and reports which succeeded.
func (b *Builder) BuildAll(ctx context.Context) domain.BuildReport {
	logger := zerolog.Ctx(ctx)
	report := domain.BuildReport{Failed: map[string]error{}}

	for _, def := range Definitions() {
		if err := b.BuildOne(ctx, def.Name); err != nil {
			logger.Error().Err(err).Str("rollup", def.Name).Msg("rollup rebuild failed")
			report.Failed[def.Name] = err
			continue
		}
		report.Succeeded = append(report.Succeeded, def.Name)
	}

	logger.Info().
		Int("succeeded", report.SuccessCount()).
		Int("total", len(Definitions())).
		Msg("rollup batch finished")
	return report
}

// Status reports document counts and freshness for every rollup.
func (b *Builder) Status(ctx context.Context) []domain.RollupStatus {
	statuses := make([]domain.RollupStatus, 0, len(Definitions()))
	for _, def := range Definitions() {
		status := domain.RollupStatus{
			Name:        def.Name,
			Description: def.Description,
		}

		count, err := b.store.Count(ctx, def.Name)
		if err != nil {
			status.BuildError = fmt.Sprintf("collection not built: %v", err)
			statuses = append(statuses, status)
			continue
		}
		status.DocumentCount = count

		latest, err := b.store.FindOneSorted(ctx, def.Name, "last_updated")
		if err == nil && latest != nil {
			if ts, ok := asTime(latest["last_updated"]); ok {
				status.LastUpdated = &ts
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	default:
		return time.Time{}, false
	}
}
