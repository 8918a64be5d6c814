package view

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type findSource[T Record] []T

func (s findSource[T]) String(i int) string {
	return strings.Join(s[i].SearchText(), " ")
}

func (s findSource[T]) Len() int { return len(s) }

// Find ranks items by fuzzy match of pattern against their search text,
// best match first. An empty pattern returns nil.
func Find[T Record](items []T, pattern string, limit int) []T {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}
	matches := fuzzy.FindFrom(pattern, findSource[T](items))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]T, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out
}
