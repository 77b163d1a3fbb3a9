package tools

import (
	"context"

	"github.com/lifeclover-platform/lifeclover/internal/vector"
)

// stubEmbedder records queries and returns a fixed vector.
type stubEmbedder struct {
	queries []string
	vec     []float32
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.queries = append(s.queries, text)
	if s.err != nil {
		return nil, s.err
	}
	if s.vec == nil {
		return []float32{0.1, 0.2}, nil
	}
	return s.vec, nil
}

type searchCall struct {
	collection string
	limit      int
	filter     *vector.Filter
}

// stubIndex records search calls and answers via searchFn, or with
// docs when searchFn is nil.
type stubIndex struct {
	calls    []searchCall
	docs     []vector.Document
	err      error
	searchFn func(call searchCall) ([]vector.Document, error)
}

func (s *stubIndex) Search(_ context.Context, collection string, _ []float32, limit int, filter *vector.Filter) ([]vector.Document, error) {
	call := searchCall{collection: collection, limit: limit, filter: filter}
	s.calls = append(s.calls, call)
	if s.searchFn != nil {
		return s.searchFn(call)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.docs, nil
}

func (s *stubIndex) Add(_ context.Context, _ string, _ []vector.Document, _ [][]float32) error {
	return nil
}

func activityDoc(name, tags string, energy float64) vector.Document {
	return vector.Document{
		Content: name,
		Metadata: map[string]any{
			"type":            "activity",
			"activity_kr":     name,
			"FEELING_TAGS":    tags,
			"ENERGY_REQUIRED": energy,
		},
	}
}

func questionDoc(text, intent string) vector.Document {
	return vector.Document{
		Content: text,
		Metadata: map[string]any{
			"type":          "question",
			"question_text": text,
			"intent":        intent,
		},
	}
}
