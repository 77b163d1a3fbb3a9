package orchestrator

import (
	"fmt"
	"time"

	"github.com/lifeclover-platform/lifeclover/internal/session"
)

// WelcomePolicy decides whether a returning user gets a re-engagement
// greeting and produces the greeting text.
type WelcomePolicy struct {
	cooldown time.Duration
	now      func() time.Time
}

// NewWelcomePolicy creates a policy with the given revisit cooldown.
func NewWelcomePolicy(cooldown time.Duration) *WelcomePolicy {
	return &WelcomePolicy{cooldown: cooldown, now: time.Now}
}

// ShouldGreet reports whether this turn opens with a greeting: only in
// chat mode, only for users with a recorded visit and existing
// history, and only after the cooldown has passed.
func (w *WelcomePolicy) ShouldGreet(mode string, sess *session.Session, historyLen int) bool {
	if mode != ModeChat {
		return false
	}
	if sess == nil || sess.LastVisit == nil || historyLen == 0 {
		return false
	}
	return w.now().Sub(*sess.LastVisit) > w.cooldown
}

// Greeting renders the welcome line for the elapsed time since the
// user's last visit.
func (w *WelcomePolicy) Greeting(sess *session.Session) string {
	title := "님"
	if name := greetingName(sess); name != "" {
		title = name + "님"
	}

	if sess == nil || sess.LastVisit == nil {
		return fmt.Sprintf("안녕하세요, %s 오늘은 좀 어떠신가요?", title)
	}

	days := int(w.now().Sub(*sess.LastVisit).Hours() / 24)
	switch {
	case days <= 0:
		return fmt.Sprintf("%s 다시 오셨군요. 이야기를 계속 나눠볼까요?", title)
	case days == 1:
		return fmt.Sprintf("%s 밤사이 편안하셨나요?", title)
	default:
		return fmt.Sprintf("%s 오랜만에 오셨네요!", title)
	}
}

func greetingName(sess *session.Session) string {
	if sess == nil {
		return ""
	}
	if name := sess.Profile["name"]; name != "" {
		return name
	}
	return sess.Profile["A1"]
}
