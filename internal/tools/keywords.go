package tools

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// keywordStopwords are filler words excluded from keyword extraction.
var keywordStopwords = map[string]struct{}{
	"그리고": {}, "그래서": {}, "합니다": {}, "했습니다": {}, "그런데": {},
	"지금": {}, "조금": {}, "정말": {}, "뭔가": {}, "나는": {},
	"제가": {}, "저는": {}, "근데": {}, "그러면": {},
}

const keywordWindow = 5

// ExtractKeywords pulls the most mentioned content words from the
// last few utterances. Later utterances weigh heavier, so a topic the
// user just raised outranks one mentioned earlier. Ties keep
// first-seen order.
func ExtractKeywords(messages []string, max int) []string {
	recent := messages
	if len(recent) > keywordWindow {
		recent = recent[len(recent)-keywordWindow:]
	}

	counts := make(map[string]int)
	var order []string

	for i, msg := range recent {
		weight := i + 1
		for _, raw := range strings.Split(strings.ReplaceAll(msg, "\n", " "), " ") {
			token := strings.Trim(strings.TrimSpace(raw), `,.?!"'()[]`)
			if utf8.RuneCountInString(token) < 2 || hasDigit(token) {
				continue
			}
			if _, stopped := keywordStopwords[token]; stopped {
				continue
			}
			if _, seen := counts[token]; !seen {
				order = append(order, token)
			}
			counts[token] += weight
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > max {
		order = order[:max]
	}
	return order
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
