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


// Package ai provides abstractions for the external AI services docgraph
// consumes: text embedding and chat completion.
//
// The package defines interfaces only; the core retrieval and fusion logic
// depends on these abstractions rather than concrete service clients.
//
//   - Embedder: generates vector embeddings from text
//   - Completer: generates answer text from a message sequence
//   - AIProvider: aggregates both for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles with injectable behavior
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types to enforce abstraction. Mock constructors return concrete
// types so tests can inject behavior and assert call counts.
//
// # Failure Policy
//
// Neither service is assumed reliable. Callers on the ingestion path
// substitute Config.FallbackVector when the embedder fails; callers on the
// query path degrade to an "information unavailable" answer when the
// completer fails. Neither failure may crash a request.
package ai
