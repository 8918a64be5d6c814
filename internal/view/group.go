package view

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Column is one board bucket. Missing marks the bucket for records whose
// group field is empty or not among the configured options.
type Column[T Record] struct {
	Value   string
	Label   string
	Items   []T
	Missing bool
}

// Count is derived from the bucket itself.
func (c Column[T]) Count() int { return len(c.Items) }

type Board[T Record] struct {
	GroupBy string
	Columns []Column[T]
}

// ColumnIndex returns the column holding the record with id, or -1.
func (b Board[T]) ColumnIndex(id string) (col, row int) {
	for ci, c := range b.Columns {
		for ri, it := range c.Items {
			if it.Field("id") == id {
				return ci, ri
			}
		}
	}
	return -1, -1
}

// Counts returns the column counts in column order.
func (b Board[T]) Counts() []int {
	out := make([]int, len(b.Columns))
	for i, c := range b.Columns {
		out[i] = c.Count()
	}
	return out
}

// MissingLabel names the bucket for records without a value for field.
func MissingLabel(field string) string {
	if field == "customer" {
		return "Unassigned"
	}
	return "No " + cases.Title(language.English).String(strings.ReplaceAll(field, "_", " "))
}

// Group partitions items by groupBy.
//
// With configured options every option is a column, even when empty, so it can
// take drops. Without options (free-text fields such as customer) columns are
// the distinct values in first-seen order. Records with an empty or unknown
// value go to a trailing Missing column, present only when it has records.
func Group[T Record](items []T, groupBy string, options []string, configured bool) Board[T] {
	b := Board[T]{GroupBy: groupBy}
	index := map[string]int{}
	if configured {
		for _, o := range options {
			if _, dup := index[o]; dup {
				continue
			}
			index[o] = len(b.Columns)
			b.Columns = append(b.Columns, Column[T]{Value: o, Label: o})
		}
	}

	var missing []T
	for _, it := range items {
		v := strings.TrimSpace(it.Field(groupBy))
		if v == "" {
			missing = append(missing, it)
			continue
		}
		i, ok := index[v]
		if !ok {
			if configured {
				missing = append(missing, it)
				continue
			}
			i = len(b.Columns)
			index[v] = i
			b.Columns = append(b.Columns, Column[T]{Value: v, Label: v})
		}
		b.Columns[i].Items = append(b.Columns[i].Items, it)
	}
	if len(missing) > 0 {
		b.Columns = append(b.Columns, Column[T]{Label: MissingLabel(groupBy), Items: missing, Missing: true})
	}
	return b
}
