// File path: internal/mapping/engine.go

// Package mapping resolves the correspondence between a template's extracted
// fields and an intake's client data. Matching is tiered: exact, then alias,
// then partial; the first tier that hits wins. The mapping is computed fresh
// per generation because client data can change between calls.
package mapping

import (
	"strings"

	"github.com/belriyad/docgen/internal/common"
)

// Strategy names the tier that produced a match.
type Strategy string

const (
	StrategyExact     Strategy = "exact"
	StrategyAlias     Strategy = "alias"
	StrategyPartial   Strategy = "partial"
	StrategyUnmatched Strategy = "unmatched"
)

// Resolved is the outcome for one template field. Unmatched fields carry no
// value and are passed downstream as explicit no-data markers, never dropped.
type Resolved struct {
	Field     string   `json:"field"`
	ClientKey string   `json:"client_key,omitempty"`
	Value     string   `json:"value,omitempty"`
	Strategy  Strategy `json:"strategy"`
}

// Stats counts matches per strategy. This count is the authoritative success
// signal for a generation attempt; completion without it proves nothing about
// whether any client data reached the document.
type Stats struct {
	Exact     int `json:"exact"`
	Alias     int `json:"alias"`
	Partial   int `json:"partial"`
	Unmatched int `json:"unmatched"`
}

// Resolved returns how many fields matched under any tier.
func (s Stats) Resolved() int {
	return s.Exact + s.Alias + s.Partial
}

// Resolve maps each template field to a client data value. Result order
// follows the field order of the template.
func Resolve(fields []string, clientData map[string]string, aliases AliasResolver) ([]Resolved, Stats) {
	exactIndex := make(map[string]string, len(clientData))
	canonIndex := make(map[string]string, len(clientData))
	for key := range clientData {
		exactIndex[strings.ToLower(strings.TrimSpace(key))] = key
		if canon := canonicalKey(key); canon != "" {
			if existing, ok := canonIndex[canon]; !ok || len(key) < len(existing) {
				canonIndex[canon] = key
			}
		}
	}

	results := make([]Resolved, 0, len(fields))
	var stats Stats
	for _, field := range fields {
		resolved := resolveField(field, clientData, exactIndex, canonIndex, aliases)
		switch resolved.Strategy {
		case StrategyExact:
			stats.Exact++
		case StrategyAlias:
			stats.Alias++
		case StrategyPartial:
			stats.Partial++
		default:
			stats.Unmatched++
		}
		results = append(results, resolved)
	}
	common.Logger().Debug("mapping: resolution complete",
		"fields", len(fields),
		"exact", stats.Exact,
		"alias", stats.Alias,
		"partial", stats.Partial,
		"unmatched", stats.Unmatched)
	return results, stats
}

func resolveField(field string, clientData map[string]string, exactIndex, canonIndex map[string]string, aliases AliasResolver) Resolved {
	// Tier 1: exact, case-insensitive and whitespace-trimmed.
	if key, ok := exactIndex[strings.ToLower(strings.TrimSpace(field))]; ok {
		return Resolved{Field: field, ClientKey: key, Value: clientData[key], Strategy: StrategyExact}
	}

	// Tier 2: semantic aliases. The canonical index also catches separator
	// variants of the field name itself ("trustee_name" vs "trusteeName").
	if key, ok := canonIndex[canonicalKey(field)]; ok {
		return Resolved{Field: field, ClientKey: key, Value: clientData[key], Strategy: StrategyAlias}
	}
	if aliases != nil {
		for _, candidate := range aliases.Candidates(field) {
			if key, ok := canonIndex[canonicalKey(candidate)]; ok {
				return Resolved{Field: field, ClientKey: key, Value: clientData[key], Strategy: StrategyAlias}
			}
		}
	}

	// Tier 3: substring containment either way, scored by longest common
	// substring; ties break toward the shortest client key.
	if key, ok := bestPartialMatch(field, clientData); ok {
		return Resolved{Field: field, ClientKey: key, Value: clientData[key], Strategy: StrategyPartial}
	}

	return Resolved{Field: field, Strategy: StrategyUnmatched}
}

func bestPartialMatch(field string, clientData map[string]string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(field))
	if needle == "" {
		return "", false
	}
	bestKey := ""
	bestScore := 0
	for key := range clientData {
		candidate := strings.ToLower(strings.TrimSpace(key))
		if candidate == "" {
			continue
		}
		if !strings.Contains(candidate, needle) && !strings.Contains(needle, candidate) {
			continue
		}
		score := longestCommonSubstring(needle, candidate)
		if score > bestScore {
			bestScore = score
			bestKey = key
			continue
		}
		if score == bestScore && bestKey != "" && len(key) < len(bestKey) {
			bestKey = key
		}
	}
	return bestKey, bestKey != ""
}

// longestCommonSubstring returns the length of the longest contiguous
// substring shared by a and b.
func longestCommonSubstring(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	best := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return best
}
