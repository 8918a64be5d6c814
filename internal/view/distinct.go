package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DistinctValues returns the sorted non-empty values of field, for filter dropdowns.
func DistinctValues[T Record](items []T, field string) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		v := strings.TrimSpace(it.Field(field))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool { return col.CompareString(out[i], out[j]) < 0 })
	return out
}
