package view

import "strings"

// FilterState is the ephemeral filter selection of one list or board view.
// Empty values mean "all".
type FilterState struct {
	Search        string `json:"search,omitempty"`
	Status        string `json:"status,omitempty"`
	Type          string `json:"type,omitempty"`
	Customer      string `json:"customer,omitempty"`
	CustomerType  string `json:"customerType,omitempty"`
	Project       string `json:"project,omitempty"`
	FinancialYear string `json:"financialYear,omitempty"`
	Priority      string `json:"priority,omitempty"`
	Assignee      string `json:"assignee,omitempty"`
	ShowClosed    bool   `json:"showClosed,omitempty"`
	GroupBy       string `json:"groupBy,omitempty"`
	SortBy        string `json:"sortBy,omitempty"`
}

func (fs FilterState) fieldFilters() [][2]string {
	return [][2]string{
		{"status", fs.Status},
		{"type", fs.Type},
		{"customer", fs.Customer},
		{"customerType", fs.CustomerType},
		{"project", fs.Project},
		{"financial_year", fs.FinancialYear},
		{"priority", fs.Priority},
		{"assignee", fs.Assignee},
	}
}

// Filter returns the records matching fs, in input order.
func Filter[T Record](items []T, fs FilterState) []T {
	needle := strings.ToLower(strings.TrimSpace(fs.Search))
	filters := fs.fieldFilters()
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !fs.ShowClosed {
			if c, ok := any(it).(Closer); ok && c.IsClosed() {
				continue
			}
		}
		if !matchesFields(it, filters) {
			continue
		}
		if needle != "" && !matchesSearch(it, needle) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matchesFields(r Record, filters [][2]string) bool {
	for _, f := range filters {
		if f[1] == "" {
			continue
		}
		if r.Field(f[0]) != f[1] {
			return false
		}
	}
	return true
}

func matchesSearch(r Record, needle string) bool {
	for _, s := range r.SearchText() {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}
