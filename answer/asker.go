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


package answer

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/poiesic/docgraph/ai"
	"github.com/poiesic/docgraph/core"
	"github.com/poiesic/docgraph/storage"
)

const (
	// DefaultSearchLimit caps the number of vector hits per question.
	DefaultSearchLimit = 10
	// DefaultScoreThreshold is the similarity quality gate.
	DefaultScoreThreshold = 0.65

	// ServiceUnavailableSentinel is the degraded answer used when the
	// completion service fails.
	ServiceUnavailableSentinel = "This information is temporarily unavailable. Please try again later."
)

// Asker runs the full question-answering path: embed the question, search
// the vector index, collect graph signals seeded by the top hit, assemble a
// budgeted context, and call the completion service.
type Asker struct {
	index     storage.VectorIndex
	embedder  ai.Embedder
	completer ai.Completer
	signals   *SignalSource
	assembler *Assembler

	collection string
	limit      int
	threshold  float32
	logger     *slog.Logger
}

// Option configures an Asker.
type Option func(*Asker) error

// WithSearchLimit sets the maximum number of vector hits per question.
func WithSearchLimit(limit int) Option {
	return func(a *Asker) error {
		if limit > 0 {
			a.limit = limit
		}
		return nil
	}
}

// WithScoreThreshold sets the similarity quality gate in [0,1].
func WithScoreThreshold(threshold float32) Option {
	return func(a *Asker) error {
		a.threshold = threshold
		return nil
	}
}

// WithSignalSource sets the graph signal source.
// Default is an absent source that collects empty signals.
func WithSignalSource(source *SignalSource) Option {
	return func(a *Asker) error {
		if source != nil {
			a.signals = source
		}
		return nil
	}
}

// WithAssembler sets a custom context assembler.
func WithAssembler(assembler *Assembler) Option {
	return func(a *Asker) error {
		if assembler != nil {
			a.assembler = assembler
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Asker) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAsker creates an asker over the given index and AI provider, reading
// from the named collection.
func NewAsker(index storage.VectorIndex, provider ai.AIProvider, collection string, opts ...Option) (*Asker, error) {
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if collection == "" {
		return nil, ErrCollectionRequired
	}

	a := &Asker{
		index:      index,
		embedder:   provider.Embedder(),
		completer:  provider.Completer(),
		signals:    NewSignalSource(nil),
		assembler:  NewAssembler(),
		collection: collection,
		limit:      DefaultSearchLimit,
		threshold:  DefaultScoreThreshold,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	a.logger = a.logger.With("component", "asker")

	return a, nil
}

// Answer is the result of one question.
type Answer struct {
	Text       string
	Citations  []core.Citation
	Context    string
	Confidence float64
	// Degraded is set when an upstream failure forced a fallback answer.
	Degraded bool
}

// Ask answers a question over the corpus.
func (a *Asker) Ask(ctx context.Context, question string) (*Answer, error) {
	return a.AskWithMonitor(ctx, question, nil)
}

// AskWithMonitor answers a question with monitoring callbacks at each
// stage. Upstream failures degrade: an embedder error falls back to a zero
// vector, a completion error yields an unavailable-service answer. Only
// structural storage errors are returned.
func (a *Asker) AskWithMonitor(ctx context.Context, question string, monitor AskMonitor) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(question)

	vector, err := a.embedder.EmbedText(ctx, question)
	if err != nil {
		a.logger.Error("error embedding question, using fallback vector", "err", err)
		dimension, dimErr := a.index.CollectionDimension(ctx, a.collection)
		if dimErr != nil {
			return nil, dimErr
		}
		vector = ai.FallbackVector(dimension)
	}

	hits, err := a.index.Search(ctx, a.collection, vector, a.threshold, a.limit)
	if err != nil {
		return nil, err
	}
	monitor.AfterSearch(hits)

	seedDoc := ""
	if len(hits) > 0 {
		seedDoc = hits[0].Record.DocumentID
	}
	signals := a.signals.Collect(seedDoc)
	monitor.AfterSignals(signals)

	assembled := a.assembler.Build(hits, signals)
	monitor.AfterAssembly(assembled)

	if assembled.Sentinel {
		answer := &Answer{
			Text:      NoInformationSentinel,
			Citations: []core.Citation{},
			Context:   assembled.Text,
		}
		monitor.Finish(answer)
		return answer, nil
	}

	text, err := a.completer.Complete(ctx, buildMessages(question, assembled), answerTemperature)
	if err != nil {
		a.logger.Error("completion service failed, degrading", "err", err)
		answer := &Answer{
			Text:      ServiceUnavailableSentinel,
			Citations: assembled.Citations,
			Context:   assembled.Text,
			Degraded:  true,
		}
		monitor.Finish(answer)
		return answer, nil
	}

	answer := &Answer{
		Text:       text,
		Citations:  assembled.Citations,
		Context:    assembled.Text,
		Confidence: confidence(hits),
	}
	monitor.Finish(answer)
	return answer, nil
}

// confidence blends the average hit similarity with hit coverage: five or
// more hits count as full coverage.
func confidence(hits []*core.VectorHit) float64 {
	if len(hits) == 0 {
		return 0
	}
	var sum float64
	for _, hit := range hits {
		sum += float64(hit.Score)
	}
	avg := sum / float64(len(hits))
	coverage := math.Min(float64(len(hits))/5.0, 1.0)
	return (avg + coverage) / 2
}
