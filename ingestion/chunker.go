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


package ingestion

import (
	"iter"
	"strings"
)

const (
	// DefaultChunkSize is the default maximum chunk length in characters.
	DefaultChunkSize = 300
	// DefaultOverlap is the default number of characters shared by
	// adjacent chunks.
	DefaultOverlap = 50
)

// defaultSeparators in priority order: paragraph break, line break,
// sentence-ending punctuation.
var defaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? "}

// Chunker splits raw document text into overlapping bounded segments.
// Chunking is pure and deterministic so corpus re-ingestion is idempotent.
type Chunker struct {
	size       int
	overlap    int
	separators []string
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker)

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(size int) ChunkerOption {
	return func(c *Chunker) { c.size = size }
}

// WithOverlap sets the number of characters adjacent chunks share.
func WithOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) { c.overlap = overlap }
}

// WithSeparators sets the separator priority list.
func WithSeparators(separators []string) ChunkerOption {
	return func(c *Chunker) { c.separators = separators }
}

// NewChunker creates a chunker. The overlap must be non-negative and
// strictly smaller than the chunk size.
func NewChunker(opts ...ChunkerOption) (*Chunker, error) {
	c := &Chunker{
		size:       DefaultChunkSize,
		overlap:    DefaultOverlap,
		separators: defaultSeparators,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.size <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if c.overlap < 0 || c.overlap >= c.size {
		return nil, ErrInvalidOverlap
	}
	return c, nil
}

// Chunk returns a lazy, restartable sequence of text segments. Each segment
// is at most the configured chunk size; adjacent segments share exactly the
// configured overlap except at the text boundaries. Segment boundaries
// prefer the highest-priority separator found inside the window, falling
// back to raw character slicing when no separator fits. Empty or
// whitespace-only input yields no chunks.
func (c *Chunker) Chunk(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if strings.TrimSpace(text) == "" {
			return
		}

		start := 0
		for start < len(text) {
			chunkStart := max(0, start-c.overlap)
			if start == 0 {
				chunkStart = 0
			}
			end := chunkStart + c.size
			if end >= len(text) {
				yield(text[chunkStart:])
				return
			}

			cut := c.cutPoint(text, chunkStart, end)
			if cut <= start {
				// No separator makes progress; slice at the window edge.
				cut = end
			}
			if !yield(text[chunkStart:cut]) {
				return
			}
			start = cut
		}
	}
}

// cutPoint finds the last occurrence of the highest-priority separator
// inside the window and cuts just after it. Returns the window edge when no
// separator is present.
func (c *Chunker) cutPoint(text string, chunkStart, end int) int {
	window := text[chunkStart:end]
	for _, sep := range c.separators {
		if idx := strings.LastIndex(window, sep); idx >= 0 {
			return chunkStart + idx + len(sep)
		}
	}
	return end
}
