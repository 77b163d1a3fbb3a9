package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/lifeclover-platform/lifeclover/internal/events"
	"github.com/lifeclover-platform/lifeclover/internal/llm"
	"github.com/lifeclover-platform/lifeclover/internal/session"
	"github.com/lifeclover-platform/lifeclover/internal/vector"
)

// scriptedLLM replays canned responses in order and records every
// conversation it was shown.
type scriptedLLM struct {
	responses []llm.Message
	chatFn    func(messages []llm.Message) (*llm.Message, error)
	chatErr   error

	conversations [][]llm.Message
	specs         [][]llm.ToolSpec

	generated   string
	generateErr error
	genPrompts  []string
}

func (f *scriptedLLM) Chat(_ context.Context, messages []llm.Message, specs []llm.ToolSpec) (*llm.Message, error) {
	f.conversations = append(f.conversations, append([]llm.Message(nil), messages...))
	f.specs = append(f.specs, specs)
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	if f.chatFn != nil {
		return f.chatFn(messages)
	}
	if len(f.responses) == 0 {
		return nil, errors.New("no scripted response left")
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return &next, nil
}

func (f *scriptedLLM) Generate(_ context.Context, _, prompt string) (string, error) {
	f.genPrompts = append(f.genPrompts, prompt)
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.generated, nil
}

func toolCallMsg(content string, calls ...llm.ToolCall) llm.Message {
	m := llm.Assistant(content)
	m.ToolCalls = calls
	return m
}

func call(id, name, args string) llm.ToolCall {
	return llm.ToolCall{ID: id, Type: "function", Function: llm.FunctionCall{Name: name, Arguments: args}}
}

// memStore is an in-memory session store with injectable faults.
type memStore struct {
	sessions map[string]*session.Session
	history  map[string][]session.Message

	loadErr    error
	historyErr error
	appendErr  error
	visitErr   error

	visits []time.Time
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[string]*session.Session),
		history:  make(map[string][]session.Message),
	}
}

func (s *memStore) Load(_ context.Context, userID string) (*session.Session, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session.Session{UserID: userID, Profile: map[string]string{}}
		s.sessions[userID] = sess
	}
	return sess, nil
}

func (s *memStore) History(_ context.Context, userID string, limit int) ([]session.Message, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	msgs := s.history[userID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]session.Message(nil), msgs...), nil
}

func (s *memStore) AppendMessage(_ context.Context, userID string, msg session.Message) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.history[userID] = append(s.history[userID], msg)
	return nil
}

func (s *memStore) SetLastVisit(_ context.Context, userID string, t time.Time) error {
	if s.visitErr != nil {
		return s.visitErr
	}
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session.Session{UserID: userID, Profile: map[string]string{}}
		s.sessions[userID] = sess
	}
	sess.LastVisit = &t
	s.visits = append(s.visits, t)
	return nil
}

func (s *memStore) MergeProfile(_ context.Context, userID string, patch map[string]string) (map[string]string, error) {
	sess, _ := s.Load(context.Background(), userID)
	sess.Profile = session.NormalizeProfile(sess.Profile, patch)
	return sess.Profile, nil
}

func (s *memStore) seed(userID string, profile map[string]string, lastVisit *time.Time, msgs ...session.Message) {
	if profile == nil {
		profile = map[string]string{}
	}
	s.sessions[userID] = &session.Session{UserID: userID, LastVisit: lastVisit, Profile: profile}
	s.history[userID] = msgs
}

// capturedTurns records published turn events.
type capturedTurns struct {
	events []events.TurnEvent
	err    error
}

func (c *capturedTurns) PublishTurn(_ context.Context, event events.TurnEvent) error {
	c.events = append(c.events, event)
	return c.err
}

// fakeEmbedder and fakeIndex stand in for the vector backend so real
// tools can run inside executor and engine tests.
type fakeEmbedder struct {
	queries []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.queries = append(f.queries, text)
	return []float32{0.5, 0.5}, nil
}

type fakeIndex struct {
	docs    []vector.Document
	filters []*vector.Filter
	err     error
}

func (f *fakeIndex) Search(_ context.Context, _ string, _ []float32, _ int, filter *vector.Filter) ([]vector.Document, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func (f *fakeIndex) Add(_ context.Context, _ string, _ []vector.Document, _ [][]float32) error {
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

func ordinanceDoc(content, region string) vector.Document {
	return vector.Document{
		Content:  content,
		Metadata: map[string]any{"type": "Public_Funeral_Ordinance", "region": region},
	}
}
