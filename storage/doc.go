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


// Package storage provides the vector index abstraction for docgraph.
//
// The VectorIndex interface decouples the retrieval path from the concrete
// storage backend. The badger subpackage implements it on BadgerDB, with an
// in-memory mode for tests.
//
// # Collections
//
// Chunk records live in named collections. A collection fixes its vector
// dimensionality at creation time; creation is idempotent, and every vector
// added afterwards must match the dimension.
//
// # Similarity
//
// Search scores are cosine similarity mapped to [0,1] (1 = identical
// direction). The score threshold applied inside Search is the single
// quality gate of the retrieval path; callers never re-filter.
//
// # Thread Safety
//
// Implementations must be thread-safe. Concurrent read queries may run in
// parallel; mutations are serialized per collection.
//
// # Serialization
//
// Records are serialized with mus-format binary serializers generated into
// the core package (see cmd/musgen).
package storage
