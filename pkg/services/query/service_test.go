package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/recovery"
	"github.com/retailops/salescope/pkg/services/schema"
	"github.com/retailops/salescope/pkg/services/synthesizer"
)

type mockTranslator struct{ mock.Mock }

func (m *mockTranslator) Translate(ctx context.Context, command string) string {
	args := m.Called(ctx, command)
	return args.String(0)
}

type mockSynthesizer struct{ mock.Mock }

func (m *mockSynthesizer) Synthesize(ctx context.Context, req synthesizer.Request) (domain.SynthesizedPipeline, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.SynthesizedPipeline), args.Error(1)
}

type mockMaintainer struct{ mock.Mock }

func (m *mockMaintainer) EnsureDerivedFields(ctx context.Context, collection string) (int, error) {
	args := m.Called(ctx, collection)
	return args.Int(0), args.Error(1)
}

type mockExecutor struct{ mock.Mock }

func (m *mockExecutor) Execute(
	ctx context.Context,
	collection string,
	pipeline domain.Pipeline,
) ([]map[string]any, time.Duration, error) {
	args := m.Called(ctx, collection, pipeline)
	if args.Get(0) == nil {
		return nil, 0, args.Error(1)
	}
	return args.Get(0).([]map[string]any), 0, args.Error(1)
}

type mockRecoverer struct{ mock.Mock }

func (m *mockRecoverer) Recover(ctx context.Context, originalCommand, translatedCommand string) recovery.Outcome {
	args := m.Called(ctx, originalCommand, translatedCommand)
	return args.Get(0).(recovery.Outcome)
}

type mockDescriber struct{ mock.Mock }

func (m *mockDescriber) Describe(
	ctx context.Context,
	command string,
	results []map[string]any,
	pipeline domain.Pipeline,
) string {
	args := m.Called(ctx, command, results, pipeline)
	return args.String(0)
}

type mockCounter struct{ mock.Mock }

func (m *mockCounter) Count(ctx context.Context, collection string) (int64, error) {
	args := m.Called(ctx, collection)
	return args.Get(0).(int64), args.Error(1)
}

type fixture struct {
	translator *mockTranslator
	synth      *mockSynthesizer
	maintainer *mockMaintainer
	exec       *mockExecutor
	recoverer  *mockRecoverer
	describer  *mockDescriber
	counter    *mockCounter
	service    *Service
}

func newFixture() *fixture {
	f := &fixture{
		translator: new(mockTranslator),
		synth:      new(mockSynthesizer),
		maintainer: new(mockMaintainer),
		exec:       new(mockExecutor),
		recoverer:  new(mockRecoverer),
		describer:  new(mockDescriber),
		counter:    new(mockCounter),
	}
	f.service = NewService(Dependencies{
		Translator: f.translator,
		Synth:      f.synth,
		Maintainer: f.maintainer,
		Executor:   f.exec,
		Recoverer:  f.recoverer,
		Describer:  f.describer,
		Counter:    f.counter,
	})
	return f
}

var testPipeline = domain.Pipeline{{"$sort": map[string]any{"total_sales": -1}}}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyCommandRejected", func(t *testing.T) {
		_, err := newFixture().service.Execute(ctx, domain.PipelineRequest{})
		assert.Error(t, err)
	})

	t.Run("RouterSwitchesToRollup", func(t *testing.T) {
		f := newFixture()
		f.translator.On("Translate", mock.Anything, "penjualan per lokasi").
			Return("Show sales by location")
		f.synth.On("Synthesize", mock.Anything, mock.MatchedBy(func(req synthesizer.Request) bool {
			return req.Collection == "sales_by_location"
		})).Return(domain.SynthesizedPipeline{Stages: testPipeline, Source: domain.SourceGenerated}, nil)
		f.counter.On("Count", mock.Anything, "sales_by_location").Return(int64(12), nil)
		f.exec.On("Execute", mock.Anything, "sales_by_location", testPipeline).
			Return([]map[string]any{{"_id": "Central Park"}}, nil)
		f.describer.On("Describe", mock.Anything, "penjualan per lokasi", mock.Anything, mock.Anything).
			Return("Central Park leads.")

		outcome, err := f.service.Execute(ctx, domain.PipelineRequest{Command: "penjualan per lokasi"})
		require.NoError(t, err)
		assert.Equal(t, "sales_by_location", outcome.CollectionUsed)
		assert.Equal(t, int64(12), outcome.DocumentsInCollection)
		assert.Equal(t, "Central Park leads.", outcome.Description)
		assert.False(t, outcome.AlternativeUsed)
		f.maintainer.AssertNotCalled(t, "EnsureDerivedFields", mock.Anything, mock.Anything)
	})

	t.Run("ExplicitCollectionOverrideWins", func(t *testing.T) {
		f := newFixture()
		f.translator.On("Translate", mock.Anything, "penjualan per lokasi").
			Return("Show sales by location")
		f.synth.On("Synthesize", mock.Anything, mock.MatchedBy(func(req synthesizer.Request) bool {
			return req.Collection == "sales_by_month"
		})).Return(domain.SynthesizedPipeline{Stages: testPipeline, Source: domain.SourceGenerated}, nil)
		f.counter.On("Count", mock.Anything, "sales_by_month").Return(int64(3), nil)
		f.exec.On("Execute", mock.Anything, "sales_by_month", testPipeline).
			Return([]map[string]any{{"month": 6}}, nil)
		f.describer.On("Describe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("")

		outcome, err := f.service.Execute(ctx, domain.PipelineRequest{
			Command:    "penjualan per lokasi",
			Collection: "sales_by_month",
		})
		require.NoError(t, err)
		assert.Equal(t, "sales_by_month", outcome.CollectionUsed)
	})

	t.Run("RawCollectionGetsDerivedFieldMaintenance", func(t *testing.T) {
		f := newFixture()
		f.translator.On("Translate", mock.Anything, "how much revenue").Return("how much revenue")
		f.synth.On("Synthesize", mock.Anything, mock.Anything).
			Return(domain.SynthesizedPipeline{Stages: testPipeline, Source: domain.SourceGenerated}, nil)
		f.maintainer.On("EnsureDerivedFields", mock.Anything, schema.RawCollection).
			Return(0, assert.AnError) // non-fatal
		f.counter.On("Count", mock.Anything, schema.RawCollection).Return(int64(500), nil)
		f.exec.On("Execute", mock.Anything, schema.RawCollection, testPipeline).
			Return([]map[string]any{{"total": 1}}, nil)
		f.describer.On("Describe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("")

		outcome, err := f.service.Execute(ctx, domain.PipelineRequest{Command: "how much revenue"})
		require.NoError(t, err)
		assert.Equal(t, schema.RawCollection, outcome.CollectionUsed)
		f.maintainer.AssertExpectations(t)
	})

	t.Run("EmptyResultsRecovered", func(t *testing.T) {
		recoveredPipeline := domain.Pipeline{{"$group": map[string]any{"_id": "$month"}}}

		f := newFixture()
		f.translator.On("Translate", mock.Anything, "penjualan per lokasi bulan juni").
			Return("Show sales by location for June")
		f.synth.On("Synthesize", mock.Anything, mock.Anything).
			Return(domain.SynthesizedPipeline{Stages: testPipeline, Source: domain.SourceGenerated}, nil)
		f.counter.On("Count", mock.Anything, mock.Anything).Return(int64(12), nil)
		f.exec.On("Execute", mock.Anything, mock.Anything, testPipeline).
			Return([]map[string]any{}, nil)
		f.recoverer.On("Recover", mock.Anything, "penjualan per lokasi bulan juni", "Show sales by location for June").
			Return(recovery.Outcome{
				Recovered:   true,
				Results:     []map[string]any{{"month": 1}},
				Pipeline:    recoveredPipeline,
				Explanation: "No data found for the original query (no rows matched June).",
			})
		f.describer.On("Describe", mock.Anything, mock.Anything, mock.Anything, recoveredPipeline).
			Return("June had no sales; showing available months.")

		outcome, err := f.service.Execute(ctx, domain.PipelineRequest{Command: "penjualan per lokasi bulan juni"})
		require.NoError(t, err)
		assert.True(t, outcome.AlternativeUsed)
		assert.Equal(t, domain.SourceRecovery, outcome.Source)
		assert.Equal(t, recoveredPipeline, outcome.Pipeline)
		assert.NotEmpty(t, outcome.Explanation)
		assert.Len(t, outcome.Results, 1)
	})

	t.Run("UnrecoveredEmptyResultStands", func(t *testing.T) {
		f := newFixture()
		f.translator.On("Translate", mock.Anything, mock.Anything).Return("sales for June")
		f.synth.On("Synthesize", mock.Anything, mock.Anything).
			Return(domain.SynthesizedPipeline{Stages: testPipeline, Source: domain.SourceFallback}, nil)
		f.counter.On("Count", mock.Anything, mock.Anything).Return(int64(12), nil)
		f.exec.On("Execute", mock.Anything, mock.Anything, testPipeline).
			Return([]map[string]any{}, nil)
		f.recoverer.On("Recover", mock.Anything, mock.Anything, mock.Anything).
			Return(recovery.Outcome{})
		f.describer.On("Describe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("")

		outcome, err := f.service.Execute(ctx, domain.PipelineRequest{
			Command:    "sales for June",
			Collection: "sales_by_month",
		})
		require.NoError(t, err)
		assert.Empty(t, outcome.Results)
		assert.False(t, outcome.AlternativeUsed)
		assert.Equal(t, domain.SourceFallback, outcome.Source)
	})

	t.Run("SynthesisFailurePropagates", func(t *testing.T) {
		f := newFixture()
		f.translator.On("Translate", mock.Anything, mock.Anything).Return("count something")
		f.synth.On("Synthesize", mock.Anything, mock.Anything).
			Return(domain.SynthesizedPipeline{}, synthesizer.ErrNoFallback)

		_, err := f.service.Execute(ctx, domain.PipelineRequest{Command: "hitung sesuatu"})
		assert.ErrorIs(t, err, synthesizer.ErrNoFallback)
	})
}
