// Package answer implements the question-answering path: context assembly
// under a token budget with citation provenance, graph-signal collection,
// and the orchestration that ties embedding, vector search, and the
// completion service together.
//
// The Assembler merges vector hits and graph signals into a single budgeted
// context plus an ordered citation list. The SignalSource models the
// relation graph as an optional capability: when the graph is absent every
// collection returns empty signals. The Asker degrades on upstream
// failures, never crashing the query path: embedder errors fall back to a
// zero vector, completion errors yield an unavailable-service answer.
package answer
