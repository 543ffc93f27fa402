package analyst

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/store/openrouter"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req openrouter.GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestDescribe(t *testing.T) {
	ctx := context.Background()
	results := []map[string]any{{"_id": "Central Park", "total_sales": 125000.0}}
	pipeline := domain.Pipeline{{"$sort": map[string]any{"total_sales": -1}}}

	t.Run("ReturnsNarration", func(t *testing.T) {
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(req openrouter.GenerateRequest) bool {
			return req.Temperature == 0.3
		})).Return("  Central Park is the strongest location.\n", nil)

		got := New(gen, "test-model").Describe(ctx, "sales by location", results, pipeline)
		assert.Equal(t, "Central Park is the strongest location.", got)
	})

	t.Run("FailureYieldsPlaceholder", func(t *testing.T) {
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("", assert.AnError)

		got := New(gen, "test-model").Describe(ctx, "sales by location", results, pipeline)
		assert.Equal(t, "Analysis unavailable.", got)
	})

	t.Run("BlankNarrationYieldsPlaceholder", func(t *testing.T) {
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("   \n", nil)

		got := New(gen, "test-model").Describe(ctx, "sales by location", results, pipeline)
		assert.Equal(t, "Analysis unavailable.", got)
	})
}
