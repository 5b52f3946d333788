// Package graph implements the relation graph: a directed, in-memory graph
// of documents, sections, and glossary terms connected by typed,
// confidence-weighted edges.
//
// The graph answers four kinds of questions: which nodes are reachable from
// a document within a bounded number of hops (Traverse), which documents
// contradict each other (FindConflicts), which documents mention a glossary
// term (FindDocumentsByTerm), and how stale the corpus is (CheckFreshness,
// ObsoleteReferences). Statistics reports density and degree centrality for
// corpus diagnostics.
//
// Construct instances explicitly with New and pass them in; there is no
// shared singleton. The graph is rebuilt from the dataset loader's source
// files on process start, so there is no persistence here.
package graph
