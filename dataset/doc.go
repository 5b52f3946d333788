// Package dataset parses the corpus source files into graph records: a
// relations JSON file (nodes, edges, conflicts, obsolete links), a document
// metadata CSV, and a glossary JSON file (terms and abbreviations).
//
// The parsers only translate file rows into core and graph types; all
// structural validation (dangling edges, duplicate nodes) happens in the
// graph package during load.
package dataset
