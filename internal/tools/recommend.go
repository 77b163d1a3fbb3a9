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

// CollectionTalkAssets holds companion-mode assets: activities and
// empathy questions.
const CollectionTalkAssets = "talk_assets"

const (
	backendUnavailable  = "DB 연결 오류"
	recommendExhausted  = "이미 추천드린 활동과 겹쳐서 새로운 추천을 찾지 못했습니다. 다른 감정이나 상황을 알려주시면 새로 찾아볼게요."
	maxRecommendations  = 3
	recommendSearchSize = 8
)

type recommendHandler struct {
	embedder embeddings.Embedder
	index    vector.Index
	seen     dedup.Store
	rules    *Rules
}

// NewRecommendTool builds the activity recommendation tool. It maps
// the user's emotion and mobility onto feeling tags and an energy
// ceiling, searches the activity assets and skips anything the user
// has already been offered.
func NewRecommendTool(embedder embeddings.Embedder, index vector.Index, seen dedup.Store, rules *Rules) *Tool {
	h := &recommendHandler{embedder: embedder, index: index, seen: seen, rules: rules}
	return &Tool{
		Name:        "recommend_activities_tool",
		Description: "사용자의 감정(B1)과 거동/활동 범위(A2/A4)를 기반으로 '의미 있는 활동'을 추천합니다. 동일 활동을 반복 추천하지 않습니다.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"user_emotion": map[string]any{
					"type":        "string",
					"description": "사용자의 현재 감정 (예: \"우울함\", \"외로움\")",
				},
				"mobility_status": map[string]any{
					"type":        "string",
					"description": "거동/활동 범위 (예: \"거동 가능\", \"집 근처 산책 가능\")",
				},
				"user_id": map[string]any{
					"type":        "string",
					"description": "사용자 ID",
				},
			},
			"required": []string{"user_emotion"},
		},
		Handler: h.handle,
	}
}

func (h *recommendHandler) handle(ctx context.Context, args map[string]any) (string, error) {
	if h.embedder == nil || h.index == nil {
		return backendUnavailable, nil
	}

	emotion := stringArg(args, "user_emotion", "")
	mobility := stringArg(args, "mobility_status", "거동 가능")
	uid := stringArg(args, "user_id", "")
	if uid == "" {
		uid = UserIDFromContext(ctx)
	}

	tags := h.rules.FeelingTags(emotion)
	ceiling := h.rules.EnergyCeiling(mobility)

	query := fmt.Sprintf("효과: %s 인 활동", strings.Join(tags, ", "))
	vec, err := h.embedder.Embed(ctx, query)
	if err != nil {
		return "", err
	}

	docs, err := h.index.Search(ctx, CollectionTalkAssets, vec, recommendSearchSize, &vector.Filter{
		Eq:  map[string]string{"type": "activity"},
		Lte: map[string]float64{"ENERGY_REQUIRED": ceiling},
	})
	if err != nil {
		return "", err
	}

	var results []string
	var fresh []string
	for _, doc := range docs {
		activity := metaString(doc.Metadata, "activity_kr")
		if activity == "" {
			activity = metaString(doc.Metadata, "activity")
		}
		if activity == "" || containsString(fresh, activity) {
			continue
		}
		if h.alreadySeen(ctx, uid, activity) {
			continue
		}
		fresh = append(fresh, activity)
		results = append(results, fmt.Sprintf("- %s (기대효과: %s)", activity, metaValue(doc.Metadata, "FEELING_TAGS")))
		if len(results) >= maxRecommendations {
			break
		}
	}

	if len(results) == 0 {
		return recommendExhausted, nil
	}

	if err := h.seen.Add(ctx, dedup.CategoryActivity, uid, fresh); err != nil {
		slog.Warn("recommend: marking activities seen failed", "user_id", uid, "error", err)
	}
	return strings.Join(results, "\n"), nil
}

func (h *recommendHandler) alreadySeen(ctx context.Context, uid, activity string) bool {
	seen, err := h.seen.Contains(ctx, dedup.CategoryActivity, uid, activity)
	if err != nil {
		// a dedup fault reads as unseen
		slog.Warn("recommend: seen check failed", "user_id", uid, "error", err)
		return false
	}
	return seen
}

func metaString(meta map[string]any, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

// metaValue renders any metadata value as text, empty when absent.
func metaValue(meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
