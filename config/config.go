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


package config

import (
	"fmt"
	"os"

	"github.com/poiesic/docgraph/ai"
	"gopkg.in/yaml.v3"
)

// Config is the full engine configuration, loadable from a YAML file.
// Zero values fall back to the defaults from Default.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	AI       AIConfig       `yaml:"ai"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Answer   AnswerConfig   `yaml:"answer"`
}

// StorageConfig locates the vector store.
type StorageConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `yaml:"path"`

	// InMemory runs the store without persistence, for tests and demos.
	InMemory bool `yaml:"in_memory"`

	// Collection is the chunk collection name.
	Collection string `yaml:"collection"`
}

// AIConfig configures the OpenAI-compatible embedding and completion services.
type AIConfig struct {
	EmbeddingHost      string `yaml:"embedding_host"`
	CompletionHost     string `yaml:"completion_host"`
	EmbeddingModel     string `yaml:"embedding_model"`
	CompletionModel    string `yaml:"completion_model"`
	EmbeddingDimension int    `yaml:"embedding_dimension"`
}

// DatasetConfig locates the relation-graph source files. All three are
// optional; the engine runs vector-only when none are given.
type DatasetConfig struct {
	Relations string `yaml:"relations"`
	Metadata  string `yaml:"metadata"`
	Glossary  string `yaml:"glossary"`
}

// ChunkingConfig controls document splitting.
type ChunkingConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

// AnswerConfig controls the question-answering path.
type AnswerConfig struct {
	TokenBudget    int     `yaml:"token_budget"`
	ScoreThreshold float64 `yaml:"score_threshold"`
	SearchLimit    int     `yaml:"search_limit"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		Storage: StorageConfig{
			Path:       "./docgraph.db",
			Collection: "chunks",
		},
		AI: AIConfig{
			EmbeddingHost:      aiDefaults.EmbeddingHost,
			CompletionHost:     aiDefaults.CompletionHost,
			EmbeddingModel:     aiDefaults.EmbeddingModel,
			CompletionModel:    aiDefaults.CompletionModel,
			EmbeddingDimension: aiDefaults.EmbeddingDimension,
		},
		Chunking: ChunkingConfig{
			ChunkSize: 300,
			Overlap:   50,
		},
		Answer: AnswerConfig{
			TokenBudget:    1000,
			ScoreThreshold: 0.65,
			SearchLimit:    10,
		},
	}
}

// Load reads a YAML config file over the defaults: keys absent from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// AIConfig converts the YAML section to the ai package's config form.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithCompletionHost(c.AI.CompletionHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithCompletionModel(c.AI.CompletionModel),
		ai.WithEmbeddingDimension(c.AI.EmbeddingDimension),
	)
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return fmt.Errorf("config: storage.path is required unless storage.in_memory is set")
	}
	if c.Storage.Collection == "" {
		return fmt.Errorf("config: storage.collection is required")
	}
	if c.Chunking.ChunkSize < 1 {
		return fmt.Errorf("config: chunking.chunk_size must be positive")
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("config: chunking.overlap must be in [0, chunk_size)")
	}
	if c.Answer.TokenBudget < 1 {
		return fmt.Errorf("config: answer.token_budget must be positive")
	}
	if c.Answer.ScoreThreshold < 0 || c.Answer.ScoreThreshold > 1 {
		return fmt.Errorf("config: answer.score_threshold must be in [0, 1]")
	}
	if c.Answer.SearchLimit < 1 {
		return fmt.Errorf("config: answer.search_limit must be positive")
	}
	return c.AIConfig().Validate()
}
