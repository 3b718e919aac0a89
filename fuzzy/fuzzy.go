// Package fuzzy performs fuzzy searching with some special case considerations
package fuzzy

import (
	"sort"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/exp/slices"
)

// Match performs a fuzzy match on a string s, searching for the characters
// given in search.
//
// The match is smart-case: a search with no uppercase letters ignores case,
// one with any uppercase letter is case sensitive.
func Match(s string, search string) bool {
	if hasUpper(search) {
		return fuzzy.Match(search, s)
	}
	return fuzzy.MatchFold(search, s)
}

// MatchFold does a case insensitive fuzzy match.
func MatchFold(s string, search string) bool {
	return fuzzy.MatchFold(search, s)
}

// Find returns the candidates matching query, closest match first. A
// candidate equal to query is returned on its own and an empty query returns
// every candidate sorted.
func Find(query string, candidates []string) []string {
	if len(query) == 0 {
		out := slices.Clone(candidates)
		slices.Sort(out)
		return out
	}

	for _, c := range candidates {
		if c == query {
			return []string{c}
		}
	}

	var ranks fuzzy.Ranks
	if hasUpper(query) {
		ranks = fuzzy.RankFind(query, candidates)
	} else {
		ranks = fuzzy.RankFindFold(query, candidates)
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].Target < ranks[j].Target
	})

	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
