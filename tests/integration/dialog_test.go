//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeclover-platform/lifeclover/internal/config"
	"github.com/lifeclover-platform/lifeclover/internal/dedup"
	"github.com/lifeclover-platform/lifeclover/internal/events"
	"github.com/lifeclover-platform/lifeclover/internal/llm"
	"github.com/lifeclover-platform/lifeclover/internal/orchestrator"
	"github.com/lifeclover-platform/lifeclover/internal/session"
	"github.com/lifeclover-platform/lifeclover/internal/tools"
	"github.com/lifeclover-platform/lifeclover/internal/vector"
)

// scriptLLM pops canned responses; safe for the consumer goroutine.
type scriptLLM struct {
	mu        sync.Mutex
	responses []llm.Message
}

func (s *scriptLLM) Chat(_ context.Context, _ []llm.Message, _ []llm.ToolSpec) (*llm.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("no scripted response left")
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return &next, nil
}

func (s *scriptLLM) Generate(context.Context, string, string) (string, error) {
	return "", nil
}

// flatEmbedder maps every text onto the same unit vector so seeded
// documents always match a search.
type flatEmbedder struct{}

func (flatEmbedder) Embed(context.Context, string) ([]float32, error) {
	return vec1536(0), nil
}

func TestDialogFlow(t *testing.T) {
	natsClient := setupNATS(t)
	ctx := context.Background()

	publisher := events.NewPublisher(natsClient.JetStream())
	store := session.NewPostgresStore(testEnv.Pool)
	seen := dedup.NewRedisStore(testEnv.RedisClient, time.Hour)
	index := vector.NewPostgresIndex(testEnv.Pool)

	// seed one recommendable activity
	require.NoError(t, index.Add(ctx, "talk_assets",
		[]vector.Document{{
			Content: "가까운 공원을 한 바퀴 걷기",
			Metadata: map[string]any{
				"type":            "activity",
				"activity_kr":     "산책",
				"FEELING_TAGS":    "기분전환, 활력",
				"ENERGY_REQUIRED": 2,
			},
		}},
		[][]float32{vec1536(0)},
	))

	userID := "it-elder-1"
	_, err := store.MergeProfile(ctx, userID, map[string]string{
		"name": "김영자", "emotion": "지루함", "mobility": "거동 가능",
	})
	require.NoError(t, err)

	client := &scriptLLM{responses: []llm.Message{
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{
			ID:   "call_1",
			Type: "function",
			Function: llm.FunctionCall{
				Name:      "recommend_activities_tool",
				Arguments: `{"user_emotion": "지루함", "mobility_status": "거동 가능"}`,
			},
		}}},
		llm.Assistant("날씨도 좋은데 가볍게 산책 어떠세요?"),
	}}

	embedder := flatEmbedder{}
	companion := tools.NewRegistry()
	companion.Register(tools.NewRecommendTool(embedder, index, seen, tools.DefaultRules()))
	companion.Register(tools.NewQuestionsTool(embedder, index, seen))
	information := tools.NewRegistry()
	for _, tool := range tools.NewInfoSearchTools(embedder, index) {
		information.Register(tool)
	}

	cfg := config.DialogConfig{
		HistoryWindow:   8,
		MaxModelCalls:   6,
		ToolTimeout:     10 * time.Second,
		StoreTimeout:    5 * time.Second,
		WelcomeCooldown: 30 * time.Minute,
	}
	engine := orchestrator.NewEngine(
		store,
		client,
		orchestrator.NewRouter(companion, information),
		orchestrator.NewExecutor(client, cfg.ToolTimeout),
		orchestrator.NewWelcomePolicy(cfg.WelcomeCooldown),
		publisher,
		cfg,
	)

	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	consumer := events.NewDialogConsumer(natsClient, publisher, engine, store)
	go consumer.Start(consumerCtx)

	time.Sleep(500 * time.Millisecond)

	require.NoError(t, publisher.PublishRequest(ctx, events.DialogRequest{
		ID:         "it-req-1",
		UserID:     userID,
		Text:       "나 너무 심심해",
		Mode:       "chat",
		ReceivedAt: time.Now().UTC(),
	}))

	reply := fetchReply(t, natsClient, "it-req-1")
	assert.Equal(t, "날씨도 좋은데 가볍게 산책 어떠세요?", reply.Reply)
	assert.Equal(t, userID, reply.UserID)

	// the turn was committed
	history, err := store.History(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "나 너무 심심해", history[0].Content)
	assert.Equal(t, "날씨도 좋은데 가볍게 산책 어떠세요?", history[1].Content)

	sess, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.NotNil(t, sess.LastVisit)

	// the surfaced activity is remembered
	marked, err := seen.Contains(ctx, dedup.CategoryActivity, userID, "산책")
	require.NoError(t, err)
	assert.True(t, marked)

	// a turn event reached the events stream
	turn := fetchTurnEvent(t, natsClient)
	assert.Equal(t, userID, turn.UserID)
	assert.Equal(t, "companion", turn.Mode)
	assert.Equal(t, 2, turn.ModelCalls)

	// checklist answers published on the profile subject get merged
	require.NoError(t, publisher.PublishProfileUpdate(ctx, events.ProfileUpdate{
		UserID:  userID,
		Profile: map[string]string{"B1": "외로움"},
	}))

	deadline := time.Now().Add(10 * time.Second)
	for {
		sess, err := store.Load(ctx, userID)
		require.NoError(t, err)
		if sess.Profile["emotion"] == "외로움" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("profile update was not applied in time")
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func fetchReply(t *testing.T, client *events.Client, requestID string) events.DialogReply {
	t.Helper()
	ctx := context.Background()

	consumer, err := client.EnsureConsumer(ctx, events.StreamDialog, "it-replies", events.SubjectDialogReply)
	require.NoError(t, err)

	var reply events.DialogReply
	deadline := time.After(15 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for dialog reply")
		default:
		}

		msgs, err := consumer.Fetch(1, jetstream.FetchMaxWait(2*time.Second))
		if err != nil {
			continue
		}
		for m := range msgs.Messages() {
			require.NoError(t, json.Unmarshal(m.Data(), &reply))
			_ = m.Ack()
		}
		if reply.RequestID == requestID {
			return reply
		}
	}
}

func fetchTurnEvent(t *testing.T, client *events.Client) events.TurnEvent {
	t.Helper()
	ctx := context.Background()

	consumer, err := client.EnsureConsumer(ctx, events.StreamEvents, "it-turns", events.SubjectTurnEvent)
	require.NoError(t, err)

	var event events.TurnEvent
	deadline := time.After(15 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for turn event")
		default:
		}

		msgs, err := consumer.Fetch(1, jetstream.FetchMaxWait(2*time.Second))
		if err != nil {
			continue
		}
		for m := range msgs.Messages() {
			require.NoError(t, json.Unmarshal(m.Data(), &event))
			_ = m.Ack()
		}
		if event.ID != "" {
			return event
		}
	}
}
