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


package dataset

import (
	"log/slog"

	"github.com/poiesic/docgraph/graph"
)

// Paths names the corpus source files. Any empty path is skipped: the
// graph is usable with relations only, metadata only, or any mix.
type Paths struct {
	Relations string
	Metadata  string
	Glossary  string
}

// BuildGraph loads the corpus source files into a fresh relation graph.
// The graph is rebuilt from these files on every process start; they are
// the source of truth after a crash.
func BuildGraph(paths Paths, opts ...graph.Option) (*graph.Graph, *graph.LoadReport, error) {
	g, err := graph.New(opts...)
	if err != nil {
		return nil, nil, err
	}

	report := &graph.LoadReport{}

	// Nodes and metadata go in before relation edges so no edge is
	// rejected for an endpoint that a later file would have supplied.
	var (
		relNodes []graph.Node
		relEdges []graph.Edge
	)
	if paths.Relations != "" {
		relNodes, relEdges, err = LoadRelations(paths.Relations)
		if err != nil {
			return nil, nil, err
		}
	}

	if paths.Metadata != "" {
		metadata, err := LoadMetadata(paths.Metadata)
		if err != nil {
			return nil, nil, err
		}
		partial, err := g.Load(nil, nil, metadata, nil)
		if err != nil {
			return nil, nil, err
		}
		report.Documents = partial.Documents
	}

	var termEdges []graph.Edge
	if paths.Glossary != "" {
		terms, edges, err := LoadGlossary(paths.Glossary)
		if err != nil {
			return nil, nil, err
		}
		termEdges = edges
		partial, err := g.Load(nil, nil, nil, terms)
		if err != nil {
			return nil, nil, err
		}
		report.Terms = partial.Terms
	}

	partial, err := g.Load(relNodes, append(relEdges, termEdges...), nil, nil)
	if err != nil {
		return nil, nil, err
	}
	report.Nodes = partial.Nodes
	report.Edges = partial.Edges
	report.SkippedEdges = partial.SkippedEdges

	slog.Default().Info("corpus graph built",
		"nodes", report.Nodes,
		"edges", report.Edges,
		"documents", report.Documents,
		"terms", report.Terms)
	return g, report, nil
}
