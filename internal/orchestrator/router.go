package orchestrator

import (
	"github.com/lifeclover-platform/lifeclover/internal/persona"
	"github.com/lifeclover-platform/lifeclover/internal/tools"
)

// Turn modes accepted at the engine boundary.
const (
	ModeChat = "chat"
	ModeInfo = "info"
)

// Router maps a requested mode to the persona that handles the turn.
type Router struct {
	companionTools   *tools.Registry
	informationTools *tools.Registry
}

// NewRouter creates a new Router.
func NewRouter(companionTools, informationTools *tools.Registry) *Router {
	return &Router{
		companionTools:   companionTools,
		informationTools: informationTools,
	}
}

// Select resolves the persona for a turn. "info" selects the
// information specialist; "chat" and every other value fall through to
// the companion.
func (r *Router) Select(mode string, profile map[string]string, userID string) persona.Persona {
	if mode == ModeInfo {
		return persona.NewInformation(r.informationTools)
	}
	return persona.NewCompanion(profile, userID, r.companionTools)
}
