package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeelingTags(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name    string
		emotion string
		want    []string
	}{
		{
			name:    "single match by substring",
			emotion: "요즘 너무 우울해요",
			want:    []string{"기분전환", "활력"},
		},
		{
			name:    "multiple matches combine in key order",
			emotion: "불안하고 외로워요",
			want:    []string{"안정", "평온/이완", "교류/소통", "위로/공감"},
		},
		{
			name:    "no match falls back to calm",
			emotion: "그냥 그래요",
			want:    []string{"평온/이완"},
		},
		{
			name:    "empty emotion falls back",
			emotion: "",
			want:    []string{"평온/이완"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.FeelingTags(tt.emotion))
		})
	}
}

func TestEnergyCeiling(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		mobility string
		want     float64
	}{
		{name: "restricted mobility", mobility: "거동 불편하심", want: 2},
		{name: "near home", mobility: "집 근처 산책 가능", want: 3},
		{name: "no match keeps default", mobility: "거동 가능", want: 5},
		{name: "empty keeps default", mobility: "", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.EnergyCeiling(tt.mobility))
		})
	}
}

func TestParseRules_MergesOverDefaults(t *testing.T) {
	data := []byte(`{
		"mappings": {
			"emotion_to_feeling_tags": {"후회": ["수용", "회고"]},
			"mobility_to_energy_range": {"휠체어": {"max_energy": 1}}
		}
	}`)

	rules := ParseRules(data)

	// New keys are added
	assert.Equal(t, []string{"수용", "회고"}, rules.FeelingTags("후회가 많아요"))
	assert.Equal(t, float64(1), rules.EnergyCeiling("휠체어 사용"))

	// Defaults survive
	assert.Equal(t, []string{"기분전환", "활력"}, rules.FeelingTags("우울해요"))
}

func TestParseRules_InvalidInputFallsBack(t *testing.T) {
	for _, data := range [][]byte{nil, {}, []byte("not json"), []byte("{}")} {
		rules := ParseRules(data)
		assert.Equal(t, []string{"평온/이완"}, rules.FeelingTags("모름"))
		assert.Equal(t, float64(5), rules.EnergyCeiling("모름"))
	}
}

func TestLoadRules_MissingFileFallsBack(t *testing.T) {
	rules := LoadRules("/does/not/exist.json")
	assert.Equal(t, []string{"평온/이완"}, rules.FeelingTags(""))

	rules = LoadRules("")
	assert.Equal(t, float64(5), rules.EnergyCeiling(""))
}
