package service

import (
	"slices"
	"strings"

	"placefinder-api/internal/models"
	"placefinder-api/internal/provider"
)

const (
	// fuzzyPenalty keeps loose matches below their exact counterparts.
	fuzzyPenalty       = 0.2
	minLoosePatternLen = 3
)

// LoosePattern derives a typo-tolerant regular expression from query by keeping
// only Latin and Greek letters and digits and allowing any gap between them.
// It returns "" when fewer than three such characters remain.
func LoosePattern(query string) string {
	var kept []rune
	for _, r := range strings.ToLower(query) {
		if isLooseRune(r) {
			kept = append(kept, r)
		}
	}
	if len(kept) < minLoosePatternLen {
		return ""
	}

	parts := make([]string, len(kept))
	for i, r := range kept {
		parts[i] = provider.EscapeRegex(string(r))
	}
	return strings.Join(parts, ".*")
}

func isLooseRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r >= 'α' && r <= 'ω':
		return true
	}
	switch r {
	case 'ά', 'έ', 'ή', 'ί', 'ό', 'ύ', 'ώ', 'ϊ', 'ΐ', 'ϋ', 'ΰ':
		return true
	}
	return false
}

// penalize returns copies of records with the fuzzy penalty applied.
func penalize(records []models.PlaceRecord) []models.PlaceRecord {
	out := make([]models.PlaceRecord, len(records))
	for i, r := range records {
		out[i] = r.WithScore(r.Score - fuzzyPenalty)
	}
	return out
}

// dedupe keeps the first record for each (lat, lon, name) key.
func dedupe(records []models.PlaceRecord) []models.PlaceRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.PlaceRecord, 0, len(records))
	for _, r := range records {
		key := r.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// rank sorts by descending score, keeping input order among equal scores.
func rank(records []models.PlaceRecord) []models.PlaceRecord {
	slices.SortStableFunc(records, func(a, b models.PlaceRecord) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	return records
}
