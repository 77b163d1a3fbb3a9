// Package region matches user-supplied place names against the
// administrative region catalogs used by the info search tools.
package region

import (
	"sort"
	"strings"
)

const similarityCutoff = 0.6

// Match returns up to n catalog regions matching the input.
// Containment matches (either direction) win in catalog order and
// return as soon as n are found. Only when no region contains the
// input (or vice versa) does it fall back to similarity matching.
func Match(input string, catalog []string, n int) []string {
	var matched []string

	for _, region := range catalog {
		if strings.Contains(region, input) || strings.Contains(input, region) {
			matched = append(matched, region)
			if len(matched) >= n {
				return matched
			}
		}
	}

	if len(matched) == 0 {
		matched = closeMatches(input, catalog, n)
	}
	return matched
}

// closeMatches ranks catalog entries by similarity to the input and
// keeps those at or above the cutoff, best first.
func closeMatches(input string, catalog []string, n int) []string {
	type scored struct {
		region string
		score  float64
	}

	var candidates []scored
	for _, region := range catalog {
		s := similarity(input, region)
		if s >= similarityCutoff {
			candidates = append(candidates, scored{region, s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	matched := make([]string, 0, len(candidates))
	for _, c := range candidates {
		matched = append(matched, c.region)
	}
	return matched
}

// similarity is 2·LCS(a,b) / (len(a)+len(b)) over runes, so Korean
// place names compare by character rather than by byte.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}
