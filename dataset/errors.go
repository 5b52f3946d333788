package dataset

import "errors"

var (
	// ErrRelationsLoad indicates a failure reading or parsing the relations file.
	ErrRelationsLoad = errors.New("failed to load relations file")

	// ErrMetadataLoad indicates a failure reading or parsing the metadata table.
	ErrMetadataLoad = errors.New("failed to load metadata file")

	// ErrGlossaryLoad indicates a failure reading or parsing the glossary file.
	ErrGlossaryLoad = errors.New("failed to load glossary file")
)
