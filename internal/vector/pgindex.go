package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// PostgresIndex implements Index using pgx + pgvector.
type PostgresIndex struct {
	pool *pgxpool.Pool
}

func NewPostgresIndex(pool *pgxpool.Pool) *PostgresIndex {
	return &PostgresIndex{pool: pool}
}

func (x *PostgresIndex) Search(ctx context.Context, collection string, embedding []float32, limit int, filter *Filter) ([]Document, error) {
	vec := pgvector.NewVector(embedding)
	args := []any{vec, collection}
	where := []string{"collection = $2"}

	clauses, filterArgs := buildFilterClauses(filter, len(args)+1)
	where = append(where, clauses...)
	args = append(args, filterArgs...)

	args = append(args, limit)
	query := fmt.Sprintf(
		`SELECT id, content, metadata, 1 - (embedding <=> $1) AS similarity
		 FROM documents
		 WHERE %s
		 ORDER BY embedding <=> $1
		 LIMIT $%d`,
		strings.Join(where, " AND "), len(args),
	)

	rows, err := x.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var metadata json.RawMessage
		if err := rows.Scan(&d.ID, &d.Content, &metadata, &d.Similarity); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &d.Metadata); err != nil {
				return nil, fmt.Errorf("decoding document metadata: %w", err)
			}
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// buildFilterClauses renders a Filter into SQL conditions starting at
// placeholder $startIdx. Keys are sorted so the generated query is
// deterministic.
func buildFilterClauses(filter *Filter, startIdx int) ([]string, []any) {
	if filter == nil {
		return nil, nil
	}

	var clauses []string
	var args []any
	idx := startIdx

	for _, key := range sortedKeys(filter.Eq) {
		clauses = append(clauses, fmt.Sprintf("metadata->>'%s' = $%d", key, idx))
		args = append(args, filter.Eq[key])
		idx++
	}
	for _, key := range sortedKeys(filter.In) {
		clauses = append(clauses, fmt.Sprintf("metadata->>'%s' = ANY($%d)", key, idx))
		args = append(args, filter.In[key])
		idx++
	}
	for _, key := range sortedKeys(filter.Lte) {
		clauses = append(clauses, fmt.Sprintf("(metadata->>'%s')::numeric <= $%d", key, idx))
		args = append(args, filter.Lte[key])
		idx++
	}
	return clauses, args
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (x *PostgresIndex) Add(ctx context.Context, collection string, docs []Document, embeddings [][]float32) error {
	if len(docs) != len(embeddings) {
		return fmt.Errorf("documents and embeddings length mismatch: %d vs %d", len(docs), len(embeddings))
	}

	for i := range docs {
		doc := docs[i]
		if doc.ID == uuid.Nil {
			doc.ID = uuid.New()
		}

		metadataBytes := json.RawMessage(`{}`)
		if len(doc.Metadata) > 0 {
			b, err := json.Marshal(doc.Metadata)
			if err != nil {
				return fmt.Errorf("encoding document metadata: %w", err)
			}
			metadataBytes = b
		}

		vec := pgvector.NewVector(embeddings[i])
		_, err := x.pool.Exec(ctx,
			`INSERT INTO documents (id, collection, content, metadata, embedding)
			 VALUES ($1, $2, $3, $4, $5)`,
			doc.ID, collection, doc.Content, metadataBytes, vec,
		)
		if err != nil {
			return fmt.Errorf("inserting document: %w", err)
		}
	}
	return nil
}
