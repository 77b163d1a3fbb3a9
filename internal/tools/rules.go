package tools

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Rules map profile wording onto search parameters: stated emotions
// to the feeling tags an activity should produce, and mobility
// descriptions to an activity energy ceiling.
type Rules struct {
	Mappings Mappings `json:"mappings"`
}

type Mappings struct {
	EmotionToFeelingTags  map[string][]string    `json:"emotion_to_feeling_tags"`
	MobilityToEnergyRange map[string]EnergyRange `json:"mobility_to_energy_range"`
}

type EnergyRange struct {
	MaxEnergy float64 `json:"max_energy"`
}

const (
	defaultFeelingTag    = "평온/이완"
	defaultEnergyCeiling = 5
)

// DefaultRules returns the built-in mapping table.
func DefaultRules() *Rules {
	return &Rules{
		Mappings: Mappings{
			EmotionToFeelingTags: map[string][]string{
				"우울": {"기분전환", "활력"},
				"슬픔": {"위로/공감", "평온/이완"},
				"불안": {"안정", "평온/이완"},
				"외로": {"교류/소통", "위로/공감"},
				"심심": {"몰입/재미", "성취감"},
				"답답": {"기분전환", "바깥활동"},
			},
			MobilityToEnergyRange: map[string]EnergyRange{
				"거동 불편": {MaxEnergy: 2},
				"도움 필요": {MaxEnergy: 3},
				"집 안":   {MaxEnergy: 2},
				"집 근처":  {MaxEnergy: 3},
				"외출 가능": {MaxEnergy: 5},
			},
		},
	}
}

// ParseRules merges partial rules JSON over the defaults. Returns
// defaults on nil, empty, or invalid input.
func ParseRules(data []byte) *Rules {
	rules := DefaultRules()
	if len(data) == 0 {
		return rules
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return rules
	}
	if len(raw) == 0 {
		return rules
	}

	// Unmarshal over defaults so only provided keys are overwritten
	_ = json.Unmarshal(data, rules)
	return rules
}

// LoadRules reads a rules file, falling back to defaults when the
// path is empty or unreadable.
func LoadRules(path string) *Rules {
	if path == "" {
		return DefaultRules()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("rules file not readable, using defaults", "path", path, "error", err)
		return DefaultRules()
	}
	return ParseRules(data)
}

// FeelingTags returns the feeling tags for the user's stated emotion.
// Every mapping whose key appears in the emotion contributes its
// tags, in sorted key order. Falls back to a calm default.
func (r *Rules) FeelingTags(emotion string) []string {
	var tags []string
	for _, key := range sortedRuleKeys(r.Mappings.EmotionToFeelingTags) {
		if strings.Contains(emotion, key) {
			tags = append(tags, r.Mappings.EmotionToFeelingTags[key]...)
		}
	}
	if len(tags) == 0 {
		tags = []string{defaultFeelingTag}
	}
	return tags
}

// EnergyCeiling returns the activity energy ceiling for the user's
// mobility description. Matching keys are applied in sorted order,
// the last one wins. Defaults to 5.
func (r *Rules) EnergyCeiling(mobility string) float64 {
	ceiling := float64(defaultEnergyCeiling)
	for _, key := range sortedRuleKeys(r.Mappings.MobilityToEnergyRange) {
		if strings.Contains(mobility, key) {
			ceiling = r.Mappings.MobilityToEnergyRange[key].MaxEnergy
		}
	}
	return ceiling
}

func sortedRuleKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
