// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package docgraph

import (
	"context"
	"log/slog"

	"github.com/poiesic/docgraph/ai"
	"github.com/poiesic/docgraph/ai/openai"
	"github.com/poiesic/docgraph/answer"
	"github.com/poiesic/docgraph/config"
	"github.com/poiesic/docgraph/consistency"
	"github.com/poiesic/docgraph/dataset"
	"github.com/poiesic/docgraph/graph"
	"github.com/poiesic/docgraph/ingestion"
	"github.com/poiesic/docgraph/storage"
	"github.com/poiesic/docgraph/storage/badger"
)

// Engine wires the vector index, the relation graph, the AI provider, and
// the session history into one retrieval engine.
type Engine struct {
	backend  *badger.Backend
	index    storage.VectorIndex
	graph    *graph.Graph
	provider ai.AIProvider
	history  *answer.History
	checker  *consistency.Checker
	cfg      *config.Config
	logger   *slog.Logger
}

// EngineOption configures engine construction.
type EngineOption func(*engineOptions)

type engineOptions struct {
	provider ai.AIProvider
	graph    *graph.Graph
}

// WithProvider injects an AI provider instead of constructing the default
// OpenAI-compatible one. The engine takes ownership and closes it.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithGraph injects a prebuilt relation graph.
func WithGraph(g *graph.Graph) EngineOption {
	return func(o *engineOptions) {
		o.graph = g
	}
}

// NewEngine opens the storage backend and assembles the engine from the
// given configuration. A nil config uses the defaults. When the config
// names dataset files and no graph was injected, the relation graph is
// built from them.
func NewEngine(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(cfg.Storage.Path, cfg.Storage.InMemory)
	if err != nil {
		return nil, err
	}

	index, err := badger.NewIndex(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// The collection exists from the start so that questions asked before
	// any ingestion get the no-information sentinel, not a storage error.
	if err := index.CreateCollection(context.Background(), cfg.Storage.Collection, cfg.AI.EmbeddingDimension); err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(cfg.AIConfig())
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	e := &Engine{
		backend:  backend,
		index:    index,
		graph:    options.graph,
		provider: provider,
		history:  answer.NewHistory(),
		checker:  consistency.NewChecker(),
		cfg:      cfg,
		logger:   slog.Default().With("component", "engine"),
	}

	if e.graph == nil {
		paths := dataset.Paths{
			Relations: cfg.Dataset.Relations,
			Metadata:  cfg.Dataset.Metadata,
			Glossary:  cfg.Dataset.Glossary,
		}
		if paths.Relations != "" || paths.Metadata != "" || paths.Glossary != "" {
			if _, err := e.LoadDataset(paths); err != nil {
				e.Close()
				return nil, err
			}
		} else {
			e.graph, err = graph.New()
			if err != nil {
				e.Close()
				return nil, err
			}
		}
	}

	return e, nil
}

// Close releases the AI provider and the storage backend.
func (e *Engine) Close() error {
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}

// VectorIndex returns the chunk store.
func (e *Engine) VectorIndex() storage.VectorIndex {
	return e.index
}

// Graph returns the relation graph.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// History returns the question session store.
func (e *Engine) History() *answer.History {
	return e.history
}

// Checker returns the per-document consistency checker.
func (e *Engine) Checker() *consistency.Checker {
	return e.checker
}

// LoadDataset builds a fresh relation graph from the given files and
// swaps it in, replacing any previous graph.
func (e *Engine) LoadDataset(paths dataset.Paths) (*graph.LoadReport, error) {
	g, report, err := dataset.BuildGraph(paths)
	if err != nil {
		return nil, err
	}
	e.graph = g
	e.logger.Info("relation graph loaded",
		"nodes", report.Nodes,
		"edges", report.Edges,
		"skipped_edges", report.SkippedEdges)
	return report, nil
}

// NewIngestionPipeline creates a pipeline writing to the configured
// collection, with chunking parameters from the configuration.
func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	chunker, err := ingestion.NewChunker(
		ingestion.WithChunkSize(e.cfg.Chunking.ChunkSize),
		ingestion.WithOverlap(e.cfg.Chunking.Overlap),
	)
	if err != nil {
		return nil, err
	}
	opts = append([]ingestion.Option{ingestion.WithChunker(chunker)}, opts...)
	return ingestion.NewPipeline(
		e.index,
		e.provider.Embedder(),
		e.cfg.Storage.Collection,
		e.cfg.AI.EmbeddingDimension,
		opts...,
	)
}

// NewAsker creates a question answerer over the configured collection,
// seeded with the engine's graph and answer settings. Later options
// override the configured defaults.
func (e *Engine) NewAsker(opts ...answer.Option) (*answer.Asker, error) {
	defaults := []answer.Option{
		answer.WithScoreThreshold(float32(e.cfg.Answer.ScoreThreshold)),
		answer.WithSearchLimit(e.cfg.Answer.SearchLimit),
		answer.WithAssembler(answer.NewAssembler(answer.WithTokenBudget(e.cfg.Answer.TokenBudget))),
		answer.WithSignalSource(answer.NewSignalSource(e.graph)),
	}
	return answer.NewAsker(e.index, e.provider, e.cfg.Storage.Collection, append(defaults, opts...)...)
}

// Ask answers a single question with no session tracking.
func (e *Engine) Ask(ctx context.Context, question string) (*answer.Answer, error) {
	asker, err := e.NewAsker()
	if err != nil {
		return nil, err
	}
	return asker.Ask(ctx, question)
}

// AskSession answers a question and records the exchange in the given
// session. The answer is returned even when recording fails, with the
// recording error alongside it.
func (e *Engine) AskSession(ctx context.Context, sessionID, question string) (*answer.Answer, error) {
	asker, err := e.NewAsker()
	if err != nil {
		return nil, err
	}
	ans, err := asker.Ask(ctx, question)
	if err != nil {
		return nil, err
	}
	if err := e.history.Record(sessionID, answer.Exchange{
		Question:   question,
		Answer:     ans.Text,
		Confidence: ans.Confidence,
	}); err != nil {
		return ans, err
	}
	return ans, nil
}

// NewValidator creates a corpus validator over the engine's graph.
func (e *Engine) NewValidator() (*consistency.Validator, error) {
	return consistency.NewValidator(e.graph)
}
