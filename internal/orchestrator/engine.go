package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifeclover-platform/lifeclover/internal/config"
	"github.com/lifeclover-platform/lifeclover/internal/events"
	"github.com/lifeclover-platform/lifeclover/internal/llm"
	"github.com/lifeclover-platform/lifeclover/internal/metrics"
	"github.com/lifeclover-platform/lifeclover/internal/persona"
	"github.com/lifeclover-platform/lifeclover/internal/session"
	"github.com/lifeclover-platform/lifeclover/internal/tools"
)

// fallbackReply is returned whenever a turn cannot complete. A faulted
// turn commits nothing, so history stays consistent.
const fallbackReply = "시스템 오류가 발생했습니다."

// diaryWindow caps how much history feeds an end-of-day diary.
const diaryWindow = 30

// TurnPublisher broadcasts completed turns. The engine tolerates a nil
// publisher.
type TurnPublisher interface {
	PublishTurn(ctx context.Context, event events.TurnEvent) error
}

// Engine is the top-level orchestrator: it loads the session, routes
// the turn to a persona, drives the executor and commits the result.
type Engine struct {
	store     session.Store
	client    llm.Client
	router    *Router
	executor  *Executor
	welcome   *WelcomePolicy
	publisher TurnPublisher
	cfg       config.DialogConfig
}

// NewEngine creates a new Engine.
func NewEngine(
	store session.Store,
	client llm.Client,
	router *Router,
	executor *Executor,
	welcome *WelcomePolicy,
	publisher TurnPublisher,
	cfg config.DialogConfig,
) *Engine {
	return &Engine{
		store:     store,
		client:    client,
		router:    router,
		executor:  executor,
		welcome:   welcome,
		publisher: publisher,
		cfg:       cfg,
	}
}

// ProcessUserMessage runs one dialogue turn and returns the reply
// text. It never panics or returns an error across this boundary: any
// fault yields a fixed fallback string and leaves the session
// untouched.
func (e *Engine) ProcessUserMessage(ctx context.Context, userID, text, mode string) string {
	start := time.Now()
	label := modeLabel(mode)

	sess, err := e.store.Load(ctx, userID)
	if err != nil {
		slog.Error("loading session", "user_id", userID, "error", err)
		return e.fallback(label, start)
	}
	history, err := e.store.History(ctx, userID, e.cfg.HistoryWindow)
	if err != nil {
		slog.Error("loading history", "user_id", userID, "error", err)
		return e.fallback(label, start)
	}

	var welcome string
	if e.welcome.ShouldGreet(mode, sess, len(history)) {
		welcome = e.welcome.Greeting(sess)
	}

	p := e.router.Select(mode, sess.Profile, userID)
	conversation, recentTexts := buildConversation(history, text)

	turnCtx := tools.WithUserID(ctx, userID)
	turnCtx = tools.WithRecentTexts(turnCtx, recentTexts)

	policy := AutoPolicy(e.cfg.MaxModelCalls)
	if mode == ModeInfo {
		policy = ManualPolicy()
	}

	res, err := e.executor.Run(turnCtx, p, conversation, policy)
	if err != nil {
		slog.Error("turn failed", "user_id", userID, "persona", p.Name, "error", err)
		return e.fallback(label, start)
	}

	reply := res.Reply
	if welcome != "" {
		if reply == "" {
			reply = welcome
		} else {
			reply = welcome + "\n\n" + reply
		}
	}

	e.commit(ctx, userID, text, reply)
	e.publishTurn(ctx, userID, label, reply, res.ModelCalls)

	metrics.TurnsTotal.WithLabelValues(label, "ok").Inc()
	metrics.TurnDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	slog.Info("turn completed",
		"user_id", userID,
		"persona", p.Name,
		"model_calls", res.ModelCalls,
		"stopped", res.StoppedReason,
	)
	return reply
}

// WelcomeMessage returns the greeting for a user on demand, regardless
// of mode or cooldown.
func (e *Engine) WelcomeMessage(ctx context.Context, userID string) string {
	sess, err := e.store.Load(ctx, userID)
	if err != nil {
		slog.Error("loading session for greeting", "user_id", userID, "error", err)
		sess = &session.Session{UserID: userID}
	}
	return e.welcome.Greeting(sess)
}

// ComposeDiary summarizes the user's recent conversation as a short
// first-person diary entry.
func (e *Engine) ComposeDiary(ctx context.Context, userID string) (string, error) {
	history, err := e.store.History(ctx, userID, diaryWindow)
	if err != nil {
		return "", fmt.Errorf("loading history: %w", err)
	}
	if len(history) == 0 {
		return "", errors.New("no conversation to summarize")
	}

	var transcript strings.Builder
	for _, m := range history {
		label := "사용자"
		if m.Role == session.RoleAssistant {
			label = "상담사"
		}
		fmt.Fprintf(&transcript, "%s: %s\n", label, m.Content)
	}

	diary, err := e.client.Generate(ctx, persona.DiarySystem(), transcript.String())
	if err != nil {
		return "", fmt.Errorf("composing diary: %w", err)
	}
	return diary, nil
}

// commit appends the turn to history and stamps the visit. Commit
// faults are logged, not surfaced: the user already has the reply.
func (e *Engine) commit(ctx context.Context, userID, userText, reply string) {
	cctx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
	defer cancel()

	now := time.Now()
	userMsg := session.Message{Role: session.RoleUser, Content: userText, Timestamp: now}
	if err := e.store.AppendMessage(cctx, userID, userMsg); err != nil {
		slog.Error("recording user message", "user_id", userID, "error", err)
	}
	assistantMsg := session.Message{Role: session.RoleAssistant, Content: reply, Timestamp: now}
	if err := e.store.AppendMessage(cctx, userID, assistantMsg); err != nil {
		slog.Error("recording assistant reply", "user_id", userID, "error", err)
	}
	if err := e.store.SetLastVisit(cctx, userID, now); err != nil {
		slog.Error("updating last visit", "user_id", userID, "error", err)
	}
}

func (e *Engine) publishTurn(ctx context.Context, userID, mode, reply string, modelCalls int) {
	if e.publisher == nil {
		return
	}
	event := events.TurnEvent{
		ID:          uuid.New().String(),
		UserID:      userID,
		Mode:        mode,
		Reply:       reply,
		ModelCalls:  modelCalls,
		CompletedAt: time.Now().UTC(),
	}
	if err := e.publisher.PublishTurn(ctx, event); err != nil {
		slog.Error("publishing turn event", "user_id", userID, "error", err)
	}
}

func (e *Engine) fallback(label string, start time.Time) string {
	metrics.TurnsTotal.WithLabelValues(label, "fallback").Inc()
	metrics.TurnDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	return fallbackReply
}

// buildConversation converts stored history into model messages plus
// the plain recent texts tools use for keyword extraction. Entries
// with unexpected roles stay out of the model context but still count
// as recent text.
func buildConversation(history []session.Message, text string) ([]llm.Message, []string) {
	msgs := make([]llm.Message, 0, len(history)+1)
	recent := make([]string, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case session.RoleUser:
			msgs = append(msgs, llm.User(m.Content))
		case session.RoleAssistant:
			msgs = append(msgs, llm.Assistant(m.Content))
		}
		recent = append(recent, m.Content)
	}
	msgs = append(msgs, llm.User(text))
	return msgs, recent
}

func modeLabel(mode string) string {
	if mode == ModeInfo {
		return persona.InformationName
	}
	return persona.CompanionName
}
