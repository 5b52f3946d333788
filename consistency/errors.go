package consistency

import "errors"

var (
	// ErrGraphRequired is returned when a validator is built without a graph.
	ErrGraphRequired = errors.New("relation graph is required")
)
