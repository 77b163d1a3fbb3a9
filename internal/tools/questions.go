package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lifeclover-platform/lifeclover/internal/dedup"
	"github.com/lifeclover-platform/lifeclover/internal/embeddings"
	"github.com/lifeclover-platform/lifeclover/internal/vector"
)

const (
	questionsNone = "적절한 질문이 없습니다."
	maxQuestions  = 3
	maxKeywords   = 5
	minDepth      = 1
	maxDepth      = 3
)

type questionsHandler struct {
	embedder embeddings.Embedder
	index    vector.Index
	seen     dedup.Store
}

// NewQuestionsTool builds the empathy question search tool. Depth
// widens the search, recent utterances contribute weighted keywords
// to the query, and questions already asked are avoided unless
// nothing fresh remains.
func NewQuestionsTool(embedder embeddings.Embedder, index vector.Index, seen dedup.Store) *Tool {
	h := &questionsHandler{embedder: embedder, index: index, seen: seen}
	return &Tool{
		Name:        "search_empathy_questions_tool",
		Description: "대화 맥락에 맞는 '공감 질문'을 검색합니다. depth(1~3)가 커질수록 더 깊은 질문을 시도하며, 이미 질문한 내용은 피합니다. 최근 대화 5개에서 핵심 키워드를 뽑아 쿼리에 가중치로 사용합니다.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"context": map[string]any{
					"type":        "string",
					"description": "현재 대화 맥락 요약",
				},
				"depth": map[string]any{
					"type":        "integer",
					"description": "질문 깊이 (1~3)",
				},
				"user_id": map[string]any{
					"type":        "string",
					"description": "사용자 ID",
				},
				"recent_messages": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "최근 대화 메시지들",
				},
			},
			"required": []string{"context"},
		},
		Handler: h.handle,
	}
}

func (h *questionsHandler) handle(ctx context.Context, args map[string]any) (string, error) {
	if h.embedder == nil || h.index == nil {
		return backendUnavailable, nil
	}

	searchContext := stringArg(args, "context", "")
	depth := intArg(args, "depth", 1)
	if depth < minDepth {
		depth = minDepth
	}
	if depth > maxDepth {
		depth = maxDepth
	}
	uid := stringArg(args, "user_id", "")
	if uid == "" {
		uid = UserIDFromContext(ctx)
	}
	recents, ok := stringListArg(args, "recent_messages")
	if !ok {
		recents = RecentTextsFromContext(ctx)
	}

	query := searchContext
	if keywords := ExtractKeywords(recents, maxKeywords); len(keywords) > 0 {
		query += " / 키워드: " + strings.Join(keywords, ", ")
	}

	vec, err := h.embedder.Embed(ctx, query)
	if err != nil {
		return "", err
	}

	docs, err := h.index.Search(ctx, CollectionTalkAssets, vec, maxQuestions+depth, &vector.Filter{
		Eq: map[string]string{"type": "question"},
	})
	if err != nil {
		return "", err
	}

	var questions []string
	var fresh []string
	for _, doc := range docs {
		qText := metaString(doc.Metadata, "question_text")
		if qText == "" || containsString(fresh, qText) {
			continue
		}
		if h.alreadyAsked(ctx, uid, qText) {
			continue
		}
		fresh = append(fresh, qText)
		questions = append(questions, fmt.Sprintf("- %s (의도: %s)", qText, metaValue(doc.Metadata, "intent")))
		if len(questions) >= maxQuestions {
			break
		}
	}

	if len(questions) == 0 && len(docs) > 0 {
		// fallback: allow repeats if nothing fresh
		top := docs
		if len(top) > maxQuestions {
			top = top[:maxQuestions]
		}
		for _, doc := range top {
			questions = append(questions, fmt.Sprintf("- %s (의도: %s)",
				metaValue(doc.Metadata, "question_text"), metaValue(doc.Metadata, "intent")))
		}
	}

	if len(fresh) > 0 {
		if err := h.seen.Add(ctx, dedup.CategoryQuestion, uid, fresh); err != nil {
			slog.Warn("questions: marking questions seen failed", "user_id", uid, "error", err)
		}
	}

	if len(questions) == 0 {
		return questionsNone, nil
	}
	return strings.Join(questions, "\n"), nil
}

func (h *questionsHandler) alreadyAsked(ctx context.Context, uid, question string) bool {
	seen, err := h.seen.Contains(ctx, dedup.CategoryQuestion, uid, question)
	if err != nil {
		// a dedup fault reads as unseen
		slog.Warn("questions: seen check failed", "user_id", uid, "error", err)
		return false
	}
	return seen
}
