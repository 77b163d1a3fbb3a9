//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeclover-platform/lifeclover/internal/session"
)

func TestPostgresSessionLifecycle(t *testing.T) {
	store := session.NewPostgresStore(testEnv.Pool)
	ctx := context.Background()
	userID := "it-session-1"

	sess, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, sess.UserID)
	assert.Nil(t, sess.LastVisit)
	assert.Empty(t, sess.Profile)

	profile, err := store.MergeProfile(ctx, userID, map[string]string{"A1": "김영자", "B1": "외로움"})
	require.NoError(t, err)
	assert.Equal(t, "김영자", profile["name"])
	assert.Equal(t, "외로움", profile["emotion"])
	assert.Equal(t, "김영자", profile["A1"])

	// a direct field name wins over the checklist answer code
	profile, err = store.MergeProfile(ctx, userID, map[string]string{"name": "박말순", "A1": "다른값"})
	require.NoError(t, err)
	assert.Equal(t, "박말순", profile["name"])

	require.NoError(t, store.AppendMessage(ctx, userID, session.Message{Role: session.RoleUser, Content: "안녕하세요"}))
	require.NoError(t, store.AppendMessage(ctx, userID, session.Message{Role: session.RoleAssistant, Content: "반가워요"}))

	history, err := store.History(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, session.RoleUser, history[0].Role)
	assert.Equal(t, "안녕하세요", history[0].Content)
	assert.Equal(t, session.RoleAssistant, history[1].Role)
	assert.Equal(t, "반가워요", history[1].Content)

	visit := time.Now().UTC()
	require.NoError(t, store.SetLastVisit(ctx, userID, visit))

	sess, err = store.Load(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, sess.LastVisit)
	assert.WithinDuration(t, visit, *sess.LastVisit, time.Second)
}

func TestPostgresHistoryWindow(t *testing.T) {
	store := session.NewPostgresStore(testEnv.Pool)
	ctx := context.Background()
	userID := "it-session-window"

	for i := 1; i <= 12; i++ {
		require.NoError(t, store.AppendMessage(ctx, userID, session.Message{
			Role:    session.RoleUser,
			Content: fmt.Sprintf("메시지 %d", i),
		}))
	}

	history, err := store.History(ctx, userID, 8)
	require.NoError(t, err)
	require.Len(t, history, 8)
	assert.Equal(t, "메시지 5", history[0].Content)
	assert.Equal(t, "메시지 12", history[7].Content)
}

func TestPostgresSessionsAreIsolated(t *testing.T) {
	store := session.NewPostgresStore(testEnv.Pool)
	ctx := context.Background()

	_, err := store.MergeProfile(ctx, "it-iso-a", map[string]string{"name": "갑"})
	require.NoError(t, err)
	require.NoError(t, store.AppendMessage(ctx, "it-iso-a", session.Message{Role: session.RoleUser, Content: "갑의 말"}))

	sess, err := store.Load(ctx, "it-iso-b")
	require.NoError(t, err)
	assert.Empty(t, sess.Profile["name"])

	history, err := store.History(ctx, "it-iso-b", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRedisSessionLifecycle(t *testing.T) {
	store := session.NewRedisStore(testEnv.RedisClient)
	ctx := context.Background()
	userID := "it-redis-session-1"

	sess, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, sess.UserID)
	assert.Nil(t, sess.LastVisit)

	profile, err := store.MergeProfile(ctx, userID, map[string]string{"A2": "실내 위주"})
	require.NoError(t, err)
	assert.Equal(t, "실내 위주", profile["mobility"])
	assert.Equal(t, "실내 위주", profile["activity_range"])

	require.NoError(t, store.AppendMessage(ctx, userID, session.Message{Role: session.RoleUser, Content: "오늘은 뭐할까"}))

	history, err := store.History(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "오늘은 뭐할까", history[0].Content)

	visit := time.Now().UTC()
	require.NoError(t, store.SetLastVisit(ctx, userID, visit))

	sess, err = store.Load(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, sess.LastVisit)
	assert.WithinDuration(t, visit, *sess.LastVisit, time.Second)
}
