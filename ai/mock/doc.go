// Package mock provides deterministic test doubles for the ai service
// interfaces. The default embedder derives vectors from an FNV hash of the
// input text, so identical texts always embed identically across test runs.
package mock
