package docgraph

import (
	"context"
	"testing"

	"github.com/poiesic/docgraph/ai/mock"
	"github.com/poiesic/docgraph/answer"
	"github.com/poiesic/docgraph/config"
	"github.com/poiesic/docgraph/consistency"
	"github.com/poiesic/docgraph/core"
	"github.com/poiesic/docgraph/graph"
	"github.com/poiesic/docgraph/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Storage.Path = ""
	cfg.Storage.InMemory = true
	cfg.Storage.Collection = "docs"
	cfg.AI.EmbeddingDimension = 4
	return cfg
}

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0, 0}, nil
	}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0, 0, 0}
		}
		return vectors, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockCompleter())

	opts = append([]EngineOption{WithProvider(provider)}, opts...)
	engine, err := NewEngine(newTestConfig(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	cfg := newTestConfig()
	cfg.Storage.Collection = ""

	_, err := NewEngine(cfg)
	assert.Error(t, err)
}

func TestEngine_IngestThenAsk(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	pipeline, err := engine.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	records, err := pipeline.IngestDocument(ctx, ingestion.DocumentInput{
		ID:      "manual",
		Name:    "Assembly Manual",
		Chapter: "3",
	}, "Torque all wing fasteners to the values listed in table 3.")
	require.NoError(t, err)
	require.NotEmpty(t, records)

	ans, err := engine.Ask(ctx, "What are the torque values?")
	require.NoError(t, err)
	assert.NotEmpty(t, ans.Text)
	require.NotEmpty(t, ans.Citations)
	assert.Equal(t, "Assembly Manual", ans.Citations[0].DocumentName)
}

func TestEngine_AskSession(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	sessionID := engine.History().StartSession()

	ans, err := engine.AskSession(ctx, sessionID, "Anything on file?")
	require.NoError(t, err)
	assert.Equal(t, answer.NoInformationSentinel, ans.Text)

	session, err := engine.History().Session(sessionID)
	require.NoError(t, err)
	require.Len(t, session.Exchanges, 1)
	assert.Equal(t, "Anything on file?", session.Exchanges[0].Question)
}

func TestEngine_AskSession_UnknownSession(t *testing.T) {
	engine := newTestEngine(t)

	ans, err := engine.AskSession(context.Background(), "ghost", "hello?")
	assert.ErrorIs(t, err, answer.ErrSessionNotFound)
	// The answer still comes back even when recording fails.
	require.NotNil(t, ans)
}

func TestEngine_GraphInjection(t *testing.T) {
	g, err := graph.New()
	require.NoError(t, err)
	require.NoError(t, g.SetDocument(&core.Document{
		ID:     "old-spec",
		Title:  "Old Spec",
		Status: core.StatusObsolete,
	}))

	engine := newTestEngine(t, WithGraph(g))

	validator, err := engine.NewValidator()
	require.NoError(t, err)
	report := validator.ValidateDocuments()
	require.Len(t, report.ObsoleteDocuments, 1)
	assert.Equal(t, "old-spec", report.ObsoleteDocuments[0].ID)
}

func TestEngine_EmptyGraphByDefault(t *testing.T) {
	engine := newTestEngine(t)

	require.NotNil(t, engine.Graph())
	assert.Zero(t, engine.Graph().NodeCount())
	assert.True(t, engine.Checker().Check(consistency.DocumentContent{ID: "probe"}).Clean())
}
