package view

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"tasky-cli/internal/duedate"
	"tasky-cli/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKind int

const (
	SortString SortKind = iota
	SortDate
	// SortDateDesc puts the most recent first.
	SortDateDesc
	// SortNumberDesc puts the largest first.
	SortNumberDesc
	// SortPriority puts the most pressing priority first.
	SortPriority
)

type SortSpec struct {
	Field string
	Kind  SortKind
}

// SortSpecFor maps a sort option name to its comparator.
func SortSpecFor(name string) (SortSpec, bool) {
	switch name {
	case "title", "status", "customer", "project", "category", "assignee", "type", "location":
		return SortSpec{Field: name, Kind: SortString}, true
	case "follow_up_date", "created_date", "date_won":
		return SortSpec{Field: name, Kind: SortDate}, true
	case "date":
		return SortSpec{Field: name, Kind: SortDateDesc}, true
	case "attendees", "dealForecast", "dealActual":
		return SortSpec{Field: name, Kind: SortNumberDesc}, true
	case "priority":
		return SortSpec{Field: name, Kind: SortPriority}, true
	default:
		return SortSpec{}, false
	}
}

// Sort returns a stably sorted copy of items. Records without a sort key come last.
func Sort[T Record](items []T, spec SortSpec) []T {
	out := slices.Clone(items)
	if spec.Field == "" {
		return out
	}
	cmp := comparator(spec)
	sort.SliceStable(out, func(i, j int) bool {
		return cmp(out[i].Field(spec.Field), out[j].Field(spec.Field)) < 0
	})
	return out
}

// comparator returns a three-way compare over raw field values where missing
// values always sort after present ones.
func comparator(spec SortSpec) func(a, b string) int {
	switch spec.Kind {
	case SortDate, SortDateDesc:
		desc := spec.Kind == SortDateDesc
		return func(a, b string) int {
			ta, oka := duedate.SortKey(a, time.Local)
			tb, okb := duedate.SortKey(b, time.Local)
			if c, done := missingLast(oka, okb); done {
				return c
			}
			c := ta.Compare(tb)
			if desc {
				return -c
			}
			return c
		}
	case SortNumberDesc:
		return func(a, b string) int {
			fa, erra := strconv.ParseFloat(a, 64)
			fb, errb := strconv.ParseFloat(b, 64)
			if c, done := missingLast(erra == nil, errb == nil); done {
				return c
			}
			switch {
			case fa > fb:
				return -1
			case fa < fb:
				return 1
			default:
				return 0
			}
		}
	case SortPriority:
		return func(a, b string) int {
			ra, rb := model.PriorityRank(a), model.PriorityRank(b)
			if c, done := missingLast(ra >= 0, rb >= 0); done {
				return c
			}
			return rb - ra
		}
	default:
		// Collators are not safe for concurrent use; one per sort.
		col := collate.New(language.English, collate.IgnoreCase)
		return func(a, b string) int {
			a, b = strings.TrimSpace(a), strings.TrimSpace(b)
			if c, done := missingLast(a != "", b != ""); done {
				return c
			}
			return col.CompareString(a, b)
		}
	}
}

func missingLast(okA, okB bool) (int, bool) {
	switch {
	case okA && okB:
		return 0, false
	case okA:
		return -1, true
	case okB:
		return 1, true
	default:
		return 0, true
	}
}
