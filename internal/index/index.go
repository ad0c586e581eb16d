// Package index provides the in-memory semantic index the pipeline retrieves
// passages from. The index is built out-of-band by the ingest tool, loaded once
// at startup, and read-only during serving.
package index

import (
	"context"
	"errors"
)

// ErrIndexUnavailable indicates the semantic index is not loaded. This is a
// fatal precondition for the answer pipeline.
var ErrIndexUnavailable = errors.New("semantic index not loaded")

// Passage is a retrieved knowledge-base passage. Read-only downstream.
type Passage struct {
	ID      string
	DocID   string
	Title   string
	Content string
	Rank    int     // position by raw similarity, 0-based
	Score   float32 // cosine similarity to the query
}

// Searcher is the retrieval capability the pipeline consumes.
// Search returns up to k passages selected for relevance and diversity from a
// candidate pool of size fetchK. fetchK < k narrows the pool, never widens it.
type Searcher interface {
	Search(ctx context.Context, query string, k, fetchK int) ([]Passage, error)
	Len() int
}
