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


package graph

import "errors"

var (
	// ErrEmptyNodeID indicates a node with an empty identifier.
	ErrEmptyNodeID = errors.New("node id is required")

	// ErrNodeNotFound indicates that the referenced node does not exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound indicates that the referenced edge does not exist.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrSelfEdge indicates an edge whose source and target are the same node.
	ErrSelfEdge = errors.New("self-referencing edge")

	// ErrInvalidConfidence indicates an edge confidence outside [0,1].
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
)
