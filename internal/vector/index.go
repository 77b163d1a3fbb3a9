// Package vector provides similarity search over embedded documents.
package vector

import (
	"context"

	"github.com/google/uuid"
)

// Document is one entry in a searchable collection. Similarity is
// populated on search results only.
type Document struct {
	ID         uuid.UUID
	Content    string
	Metadata   map[string]any
	Similarity float64
}

// Filter narrows a search by document metadata. All clauses must hold.
// A nil Filter matches everything in the collection.
type Filter struct {
	// Eq requires metadata[key] == value.
	Eq map[string]string
	// In requires metadata[key] to be one of the values.
	In map[string][]string
	// Lte requires metadata[key], read as a number, to be at most value.
	Lte map[string]float64
}

// Index is a vector store holding one or more named collections.
type Index interface {
	// Search returns up to limit documents from the collection ordered
	// by similarity to the embedding, best first.
	Search(ctx context.Context, collection string, embedding []float32, limit int, filter *Filter) ([]Document, error)

	// Add inserts documents with their embeddings into the collection.
	// embeddings[i] belongs to docs[i].
	Add(ctx context.Context, collection string, docs []Document, embeddings [][]float32) error
}
