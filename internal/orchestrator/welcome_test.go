package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lifeclover-platform/lifeclover/internal/session"
)

func fixedWelcomePolicy(cooldown time.Duration, now time.Time) *WelcomePolicy {
	w := NewWelcomePolicy(cooldown)
	w.now = func() time.Time { return now }
	return w
}

func visitedAt(t time.Time) *session.Session {
	return &session.Session{UserID: "elder-1", LastVisit: &t, Profile: map[string]string{}}
}

func TestWelcomePolicy_ShouldGreet(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	w := fixedWelcomePolicy(30*time.Minute, now)

	twoHoursAgo := visitedAt(now.Add(-2 * time.Hour))

	tests := []struct {
		name       string
		mode       string
		sess       *session.Session
		historyLen int
		want       bool
	}{
		{name: "revisit after cooldown", mode: ModeChat, sess: twoHoursAgo, historyLen: 4, want: true},
		{name: "info mode never greets", mode: ModeInfo, sess: twoHoursAgo, historyLen: 4, want: false},
		{name: "unknown mode never greets", mode: "", sess: twoHoursAgo, historyLen: 4, want: false},
		{name: "first visit", mode: ModeChat, sess: &session.Session{UserID: "elder-1"}, historyLen: 0, want: false},
		{name: "no history", mode: ModeChat, sess: twoHoursAgo, historyLen: 0, want: false},
		{name: "within cooldown", mode: ModeChat, sess: visitedAt(now.Add(-10 * time.Minute)), historyLen: 4, want: false},
		{name: "exactly at cooldown", mode: ModeChat, sess: visitedAt(now.Add(-30 * time.Minute)), historyLen: 4, want: false},
		{name: "nil session", mode: ModeChat, sess: nil, historyLen: 4, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.ShouldGreet(tt.mode, tt.sess, tt.historyLen))
		})
	}
}

func TestWelcomePolicy_GreetingBuckets(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	w := fixedWelcomePolicy(30*time.Minute, now)

	tests := []struct {
		name string
		sess *session.Session
		want string
	}{
		{
			name: "no visit on record",
			sess: &session.Session{UserID: "elder-1", Profile: map[string]string{"name": "김영희"}},
			want: "안녕하세요, 김영희님 오늘은 좀 어떠신가요?",
		},
		{
			name: "same day",
			sess: visitedAt(now.Add(-3 * time.Hour)),
			want: "님 다시 오셨군요. 이야기를 계속 나눠볼까요?",
		},
		{
			name: "yesterday",
			sess: visitedAt(now.Add(-30 * time.Hour)),
			want: "님 밤사이 편안하셨나요?",
		},
		{
			name: "days ago",
			sess: visitedAt(now.Add(-90 * 24 * time.Hour)),
			want: "님 오랜만에 오셨네요!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Greeting(tt.sess))
		})
	}
}

func TestWelcomePolicy_GreetingTitle(t *testing.T) {
	w := fixedWelcomePolicy(30*time.Minute, time.Now())

	named := &session.Session{Profile: map[string]string{"name": "박철수"}}
	assert.Equal(t, "안녕하세요, 박철수님 오늘은 좀 어떠신가요?", w.Greeting(named))

	// the raw checklist answer stands in when the profile was never
	// normalized
	rawOnly := &session.Session{Profile: map[string]string{"A1": "이순자"}}
	assert.Equal(t, "안녕하세요, 이순자님 오늘은 좀 어떠신가요?", w.Greeting(rawOnly))

	assert.Equal(t, "안녕하세요, 님 오늘은 좀 어떠신가요?", w.Greeting(&session.Session{}))
	assert.Equal(t, "안녕하세요, 님 오늘은 좀 어떠신가요?", w.Greeting(nil))
}
