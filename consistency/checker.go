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


package consistency

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// maxDocumentAge is how old a document may be before it draws an age warning.
const maxDocumentAge = 365 * 24 * time.Hour

// firstVersion draws a review warning: first editions need extra scrutiny.
const firstVersion = "1.0"

// defaultStalenessKeywords mark content that likely cites superseded material.
var defaultStalenessKeywords = []string{"deprecated", "устарело", "outdated", "old version"}

// defaultObligationPairs are obligation phrases with their negations. A
// document containing both sides of a pair is flagged as potentially
// self-contradictory. String containment only, not NLP; the findings are
// advisory.
var defaultObligationPairs = [][2]string{
	{"must", "must not"},
	{"shall", "shall not"},
	{"должен", "не должен"},
}

// DocumentContent is the input to a consistency check: a document's
// metadata plus its raw text. Absent fields skip the corresponding checks.
type DocumentContent struct {
	ID        string
	Title     string
	Version   string
	Content   string
	CreatedAt time.Time
}

// Finding is a single non-fatal check result.
type Finding struct {
	Issue   string
	Message string
}

// Report collects every finding for one document. All findings are data,
// never errors: a finding-free report has empty slices.
type Report struct {
	DocumentID           string
	DocumentTitle        string
	Issues               []Finding
	Warnings             []Finding
	DeprecatedReferences []Finding
	Contradictions       []Finding
	CheckedAt            time.Time
}

// Clean reports whether no check produced a finding.
func (r *Report) Clean() bool {
	return len(r.Issues) == 0 &&
		len(r.Warnings) == 0 &&
		len(r.DeprecatedReferences) == 0 &&
		len(r.Contradictions) == 0
}

// Checker scans document content for obsolescence, contradiction, and
// staleness signals. All heuristics are independent and non-fatal.
type Checker struct {
	stalenessKeywords []string
	obligationPairs   [][2]string
	maxAge            time.Duration
	now               func() time.Time
	logger            *slog.Logger
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithStalenessKeywords replaces the staleness keyword set.
func WithStalenessKeywords(keywords []string) CheckerOption {
	return func(c *Checker) { c.stalenessKeywords = keywords }
}

// WithObligationPairs replaces the obligation/negation pairs.
func WithObligationPairs(pairs [][2]string) CheckerOption {
	return func(c *Checker) { c.obligationPairs = pairs }
}

// WithMaxAge sets the document age that triggers a warning.
func WithMaxAge(age time.Duration) CheckerOption {
	return func(c *Checker) { c.maxAge = age }
}

// WithClock sets the time source, for tests.
func WithClock(now func() time.Time) CheckerOption {
	return func(c *Checker) { c.now = now }
}

// NewChecker creates a consistency checker with the default heuristics.
func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{
		stalenessKeywords: defaultStalenessKeywords,
		obligationPairs:   defaultObligationPairs,
		maxAge:            maxDocumentAge,
		now:               time.Now,
		logger:            slog.Default().With("component", "consistency"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check runs every heuristic against one document. Missing optional fields
// simply skip the corresponding check; Check never fails.
func (c *Checker) Check(doc DocumentContent) *Report {
	report := &Report{
		DocumentID:           doc.ID,
		DocumentTitle:        doc.Title,
		Issues:               []Finding{},
		Warnings:             []Finding{},
		DeprecatedReferences: []Finding{},
		Contradictions:       []Finding{},
		CheckedAt:            c.now(),
	}

	content := strings.ToLower(doc.Content)

	if content != "" {
		for _, keyword := range c.stalenessKeywords {
			if strings.Contains(content, strings.ToLower(keyword)) {
				report.DeprecatedReferences = append(report.DeprecatedReferences, Finding{
					Issue:   "stale reference",
					Message: fmt.Sprintf("content mentions potentially outdated material: %q", keyword),
				})
			}
		}

		for _, pair := range c.obligationPairs {
			if strings.Contains(content, strings.ToLower(pair[0])) &&
				strings.Contains(content, strings.ToLower(pair[1])) {
				report.Contradictions = append(report.Contradictions, Finding{
					Issue:   "conflicting requirements",
					Message: fmt.Sprintf("content contains both %q and %q requirements", pair[0], pair[1]),
				})
			}
		}
	}

	if doc.Version == firstVersion {
		report.Warnings = append(report.Warnings, Finding{
			Issue:   "first version",
			Message: "document is in its first version and needs additional review",
		})
	}

	if !doc.CreatedAt.IsZero() {
		if age := c.now().Sub(doc.CreatedAt); age > c.maxAge {
			report.Warnings = append(report.Warnings, Finding{
				Issue:   "document age",
				Message: fmt.Sprintf("document was created %d days ago and needs revalidation", int(age.Hours()/24)),
			})
		}
	}

	c.logger.Debug("document checked",
		"document", doc.ID,
		"warnings", len(report.Warnings),
		"deprecated_references", len(report.DeprecatedReferences),
		"contradictions", len(report.Contradictions))
	return report
}
