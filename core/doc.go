// Package core defines the domain model shared across docgraph: documents,
// chunk records, glossary terms, relation kinds, citations, and conflict
// records, together with their validation rules.
//
// Types in this package carry no behavior beyond parsing, formatting, and
// validation; storage, graph, and retrieval logic live in their own packages
// and depend on core, never the other way around.
package core
