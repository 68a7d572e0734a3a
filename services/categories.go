package services

import (
	"sort"
	"strings"

	"suba-radar/models"
)

const categorySeparator = ", "

// SplitCategories returns the tokens of a categories field. Missing fields
// yield nil and empty tokens are skipped.
func SplitCategories(categories string) []string {
	if categories == "" {
		return nil
	}
	parts := strings.Split(categories, categorySeparator)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// ExtractCategories returns the distinct category tokens across the table.
func ExtractCategories(rows []*models.Snapshot) map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range rows {
		for _, c := range SplitCategories(r.Categories) {
			set[c] = struct{}{}
		}
	}
	return set
}

// SortedCategories returns ExtractCategories in alphabetical order.
func SortedCategories(rows []*models.Snapshot) []string {
	set := ExtractCategories(rows)
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
