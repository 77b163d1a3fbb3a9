// Package persona defines the two conversational personas: a warm
// companion for everyday talk and an information specialist for
// funeral and administrative questions. A persona is a system
// instruction plus the tool set it may call; all turn control flow
// lives in the orchestrator.
package persona

import (
	"fmt"

	"github.com/lifeclover-platform/lifeclover/internal/tools"
)

// Persona names used in logs and metric labels.
const (
	CompanionName   = "companion"
	InformationName = "information"
)

type Persona struct {
	Name     string
	System   string
	Registry *tools.Registry
}

// NewCompanion builds the companion persona for one turn. The system
// instruction is parameterized with the user's normalized profile so
// the model can pass emotion and mobility on to the recommendation
// tool, and with the user id so tools key their seen-sets correctly.
func NewCompanion(profile map[string]string, userID string, registry *tools.Registry) Persona {
	name := firstNonEmpty(profile["name"], "친구")
	age := firstNonEmpty(profile["age"], "미상")
	mobility := firstNonEmpty(profile["mobility"], profile["activity_range"], "거동 정보 없음")
	emotion := firstNonEmpty(profile["emotion"], "기분 정보 없음")

	return Persona{
		Name:     CompanionName,
		System:   fmt.Sprintf(companionTemplate, name, age, mobility, emotion, userID),
		Registry: registry,
	}
}

// NewInformation builds the information persona. Its instruction is
// static; the profile plays no part in information mode.
func NewInformation(registry *tools.Registry) Persona {
	return Persona{
		Name:     InformationName,
		System:   informationSystem,
		Registry: registry,
	}
}

// DiarySystem is the instruction for end-of-day diary summarization.
func DiarySystem() string {
	return diarySystem
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
