package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/poiesic/docgraph/core"
)

// metadata date formats tried in order.
var dateLayouts = []string{"2006-01-02", "02.01.2006", time.RFC3339}

// LoadMetadata parses a document metadata CSV into Document records.
// Expected header columns: doc_id, title, type, version, status,
// issue_date, author, keywords (comma-separated). Unknown columns are
// ignored; rows without a doc_id are skipped.
func LoadMetadata(path string) ([]*core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataLoad, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataLoad, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var docs []*core.Document
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMetadataLoad, err)
		}

		id := field(row, "doc_id")
		if id == "" {
			continue
		}

		doc := &core.Document{
			ID:      id,
			Title:   field(row, "title"),
			Type:    core.ParseDocumentType(field(row, "type")),
			Version: field(row, "version"),
			Status:  core.ParseDocumentStatus(field(row, "status")),
			Author:  field(row, "author"),
		}
		if doc.Title == "" {
			doc.Title = id
		}
		if date := field(row, "issue_date"); date != "" {
			doc.IssueDate = parseDate(date)
		}
		if keywords := field(row, "keywords"); keywords != "" {
			for _, kw := range strings.Split(keywords, ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					doc.Keywords = append(doc.Keywords, kw)
				}
			}
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// parseDate tries the known date layouts; an unparseable date yields the
// zero time, which downstream checks treat as "not specified".
func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
