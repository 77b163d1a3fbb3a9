package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeclover-platform/lifeclover/internal/dedup"
	"github.com/lifeclover-platform/lifeclover/internal/vector"
)

func setupRecommend(t *testing.T, idx *stubIndex) (*Tool, *stubEmbedder, dedup.Store) {
	t.Helper()
	emb := &stubEmbedder{}
	seen := dedup.NewMemoryStore(time.Hour)
	t.Cleanup(seen.Close)
	return NewRecommendTool(emb, idx, seen, DefaultRules()), emb, seen
}

func TestRecommendTool_QueryAndFilter(t *testing.T) {
	idx := &stubIndex{docs: []vector.Document{activityDoc("화분 가꾸기", "기분전환", 2)}}
	tool, emb, _ := setupRecommend(t, idx)

	out, err := tool.Handler(context.Background(), map[string]any{
		"user_emotion":    "요즘 너무 우울해요",
		"mobility_status": "집 근처 산책 가능",
	})
	require.NoError(t, err)
	assert.Equal(t, "- 화분 가꾸기 (기대효과: 기분전환)", out)

	require.Len(t, emb.queries, 1)
	assert.Equal(t, "효과: 기분전환, 활력 인 활동", emb.queries[0])

	require.Len(t, idx.calls, 1)
	call := idx.calls[0]
	assert.Equal(t, CollectionTalkAssets, call.collection)
	assert.Equal(t, recommendSearchSize, call.limit)
	require.NotNil(t, call.filter)
	assert.Equal(t, "activity", call.filter.Eq["type"])
	assert.Equal(t, 3.0, call.filter.Lte["ENERGY_REQUIRED"])
}

func TestRecommendTool_CapsAtThree(t *testing.T) {
	idx := &stubIndex{docs: []vector.Document{
		activityDoc("산책", "바깥활동", 3),
		activityDoc("그림 그리기", "몰입/재미", 1),
		activityDoc("라디오 듣기", "평온/이완", 1),
		activityDoc("정원 손질", "성취감", 4),
	}}
	tool, _, _ := setupRecommend(t, idx)

	out, err := tool.Handler(context.Background(), map[string]any{"user_emotion": "심심해요"})
	require.NoError(t, err)
	assert.Equal(t,
		"- 산책 (기대효과: 바깥활동)\n- 그림 그리기 (기대효과: 몰입/재미)\n- 라디오 듣기 (기대효과: 평온/이완)",
		out)
}

func TestRecommendTool_SkipsAlreadySeen(t *testing.T) {
	idx := &stubIndex{docs: []vector.Document{
		activityDoc("산책", "바깥활동", 3),
		activityDoc("그림 그리기", "몰입/재미", 1),
	}}
	tool, _, seen := setupRecommend(t, idx)

	ctx := WithUserID(context.Background(), "elder-1")
	require.NoError(t, seen.Add(ctx, dedup.CategoryActivity, "elder-1", []string{"산책"}))

	out, err := tool.Handler(ctx, map[string]any{"user_emotion": "답답해요"})
	require.NoError(t, err)
	assert.Equal(t, "- 그림 그리기 (기대효과: 몰입/재미)", out)
}

func TestRecommendTool_MarksResultsSeen(t *testing.T) {
	idx := &stubIndex{docs: []vector.Document{activityDoc("산책", "바깥활동", 3)}}
	tool, _, seen := setupRecommend(t, idx)

	ctx := WithUserID(context.Background(), "elder-1")
	_, err := tool.Handler(ctx, map[string]any{"user_emotion": "답답해요"})
	require.NoError(t, err)

	got, err := seen.Contains(ctx, dedup.CategoryActivity, "elder-1", "산책")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestRecommendTool_ExhaustedLeavesSeenAlone(t *testing.T) {
	idx := &stubIndex{docs: []vector.Document{activityDoc("산책", "바깥활동", 3)}}
	tool, _, seen := setupRecommend(t, idx)

	ctx := WithUserID(context.Background(), "elder-1")
	require.NoError(t, seen.Add(ctx, dedup.CategoryActivity, "elder-1", []string{"산책"}))

	out, err := tool.Handler(ctx, map[string]any{"user_emotion": "답답해요"})
	require.NoError(t, err)
	assert.Equal(t, recommendExhausted, out)
}

func TestRecommendTool_SkipsBatchDuplicatesAndBlanks(t *testing.T) {
	blank := vector.Document{Metadata: map[string]any{"type": "activity"}}
	idx := &stubIndex{docs: []vector.Document{
		activityDoc("산책", "바깥활동", 3),
		blank,
		activityDoc("산책", "바깥활동", 3),
		activityDoc("독서", "몰입/재미", 1),
	}}
	tool, _, _ := setupRecommend(t, idx)

	out, err := tool.Handler(context.Background(), map[string]any{"user_emotion": "심심해요"})
	require.NoError(t, err)
	assert.Equal(t, "- 산책 (기대효과: 바깥활동)\n- 독서 (기대효과: 몰입/재미)", out)
}

func TestRecommendTool_FallsBackToActivityLabel(t *testing.T) {
	doc := vector.Document{
		Content: "walking",
		Metadata: map[string]any{
			"type":         "activity",
			"activity":     "walking",
			"FEELING_TAGS": "바깥활동",
		},
	}
	idx := &stubIndex{docs: []vector.Document{doc}}
	tool, _, _ := setupRecommend(t, idx)

	out, err := tool.Handler(context.Background(), map[string]any{"user_emotion": "답답해요"})
	require.NoError(t, err)
	assert.Equal(t, "- walking (기대효과: 바깥활동)", out)
}

func TestRecommendTool_UserIDArgWinsOverContext(t *testing.T) {
	idx := &stubIndex{docs: []vector.Document{activityDoc("산책", "바깥활동", 3)}}
	tool, _, seen := setupRecommend(t, idx)

	ctx := WithUserID(context.Background(), "ctx-user")
	_, err := tool.Handler(ctx, map[string]any{
		"user_emotion": "답답해요",
		"user_id":      "arg-user",
	})
	require.NoError(t, err)

	got, err := seen.Contains(ctx, dedup.CategoryActivity, "arg-user", "산책")
	require.NoError(t, err)
	assert.True(t, got)
	got, err = seen.Contains(ctx, dedup.CategoryActivity, "ctx-user", "산책")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRecommendTool_NilBackends(t *testing.T) {
	seen := dedup.NewMemoryStore(time.Hour)
	t.Cleanup(seen.Close)
	tool := NewRecommendTool(nil, nil, seen, DefaultRules())

	out, err := tool.Handler(context.Background(), map[string]any{"user_emotion": "우울해요"})
	require.NoError(t, err)
	assert.Equal(t, backendUnavailable, out)
}

func TestRecommendTool_SearchErrorFaults(t *testing.T) {
	idx := &stubIndex{err: errors.New("connection refused")}
	tool, _, _ := setupRecommend(t, idx)

	_, err := tool.Handler(context.Background(), map[string]any{"user_emotion": "우울해요"})
	assert.Error(t, err)
}
