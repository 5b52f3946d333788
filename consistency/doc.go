// Package consistency detects obsolescence, contradiction, and staleness
// signals in a technical-document corpus. The Checker scans one document's
// text with cheap string heuristics; the Validator cross-checks documents
// against the relation graph. Every finding is advisory data, never an
// error: a corpus full of problems still validates successfully, it just
// produces a long report.
package consistency
