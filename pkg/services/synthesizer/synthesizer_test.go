package synthesizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/schema"
	"github.com/retailops/salescope/pkg/store/openrouter"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req openrouter.GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestSynthesize(t *testing.T) {
	ctx := context.Background()

	t.Run("TemplateMatchSkipsGeneration", func(t *testing.T) {
		gen := new(mockGenerator)

		got, err := New(gen, "test-model").Synthesize(ctx, Request{
			OriginalCommand:   "kategori produk terlaris per lokasi bulan juni",
			TranslatedCommand: "top product categories by location for June",
			Collection:        "sales_by_location_month",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SourceTemplate, got.Source)
		assert.Equal(t, topCategoriesPerLocationJune(), got.Stages)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("TemplateIsStable", func(t *testing.T) {
		gen := new(mockGenerator)
		s := New(gen, "test-model")
		req := Request{
			TranslatedCommand: "top products per location",
			Collection:        "product_performance_nested",
		}

		first, err := s.Synthesize(ctx, req)
		require.NoError(t, err)
		second, err := s.Synthesize(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("GeneratedPipelineAccepted", func(t *testing.T) {
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).
			Return("Here is the pipeline:\n```json\n[{\"$match\": {\"month\": 6}},\n {\"$sort\": {\"total_sales\": -1}}]\n```", nil)

		got, err := New(gen, "test-model").Synthesize(ctx, Request{
			TranslatedCommand: "sales for June",
			Collection:        "sales_by_month",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SourceGenerated, got.Source)
		assert.Equal(t, domain.Pipeline{
			{"$match": map[string]any{"month": float64(6)}},
			{"$sort": map[string]any{"total_sales": float64(-1)}},
		}, got.Stages)
	})

	t.Run("UnknownFieldFallsBack", func(t *testing.T) {
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).
			Return(`[{"$match": {"no_such_field": 1}}]`, nil)

		got, err := New(gen, "test-model").Synthesize(ctx, Request{
			OriginalCommand:   "penjualan bulan juni",
			TranslatedCommand: "sales for June",
			Collection:        "sales_by_month",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SourceFallback, got.Source)
		assert.Equal(t, domain.Pipeline{
			{"$match": map[string]any{"month": 6}},
			{"$sort": map[string]any{"total_sales": -1}},
		}, got.Stages)
	})

	t.Run("UnparseableOutputFallsBack", func(t *testing.T) {
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).
			Return("I cannot produce a pipeline for that.", nil)

		got, err := New(gen, "test-model").Synthesize(ctx, Request{
			OriginalCommand:   "penjualan per lokasi",
			TranslatedCommand: "sales by location",
			Collection:        schema.RawCollection,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SourceFallback, got.Source)
	})

	t.Run("NoFallbackMatchesIsTerminal", func(t *testing.T) {
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("", assert.AnError)

		_, err := New(gen, "test-model").Synthesize(ctx, Request{
			OriginalCommand:   "hitung sesuatu",
			TranslatedCommand: "count something",
			Collection:        schema.RawCollection,
		})
		assert.ErrorIs(t, err, ErrNoFallback)
	})

	t.Run("LimitAppendedOnce", func(t *testing.T) {
		limit := 5
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).
			Return(`[{"$sort": {"total_sales": -1}}]`, nil)

		got, err := New(gen, "test-model").Synthesize(ctx, Request{
			TranslatedCommand: "sales for June",
			Collection:        "sales_by_month",
			Limit:             &limit,
		})
		require.NoError(t, err)
		require.True(t, got.Stages.HasStage("$limit"))
		assert.Equal(t, map[string]any{"$limit": 5}, got.Stages[len(got.Stages)-1])
	})

	t.Run("ExistingLimitPreserved", func(t *testing.T) {
		limit := 5
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).
			Return(`[{"$sort": {"total_sales": -1}}, {"$limit": 3}]`, nil)

		got, err := New(gen, "test-model").Synthesize(ctx, Request{
			TranslatedCommand: "top 3 months",
			Collection:        "sales_by_month",
			Limit:             &limit,
		})
		require.NoError(t, err)
		assert.Len(t, got.Stages, 2)
		assert.Equal(t, map[string]any{"$limit": float64(3)}, got.Stages[1])
	})
}
