package cli

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"tasky-cli/internal/duedate"
	"tasky-cli/internal/model"
	"tasky-cli/internal/view"

	"github.com/charmbracelet/x/ansi"
)

// result is a command payload with an optional table rendering. JSON output is
// the payload itself.
type result struct {
	payload any
	header  []string
	rows    [][]string
}

func (r result) MarshalJSON() ([]byte, error) { return json.Marshal(r.payload) }
func (r result) Header() []string             { return r.header }
func (r result) Rows() [][]string             { return r.rows }

const titleWidth = 48

func taskHeader() []string {
	return []string{"ID", "TITLE", "STATUS", "PRIORITY", "CUSTOMER", "DUE", ""}
}

// taskRows renders tasks with the overdue label as the last column.
func taskRows(tasks []model.Task, now time.Time) [][]string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		label := ""
		if duedate.IsOverdue(t.FollowUpDate, t.IsClosed(), now) {
			label = duedate.OverdueLabel(t.FollowUpDate, now)
		}
		rows = append(rows, []string{
			t.ID,
			ansi.Truncate(t.Title, titleWidth, "…"),
			t.Status,
			t.Priority,
			t.CustomerName,
			duedate.Format(t.FollowUpDate, nil),
			label,
		})
	}
	return rows
}

type columnOut struct {
	Value   string       `json:"value"`
	Label   string       `json:"label"`
	Count   int          `json:"count"`
	Missing bool         `json:"missing,omitempty"`
	Tasks   []model.Task `json:"tasks"`
}

func boardResult(b view.Board[model.Task]) result {
	cols := make([]columnOut, 0, len(b.Columns))
	var rows [][]string
	for _, c := range b.Columns {
		items := c.Items
		if items == nil {
			items = []model.Task{}
		}
		cols = append(cols, columnOut{Value: c.Value, Label: c.Label, Count: c.Count(), Missing: c.Missing, Tasks: items})
		titles := make([]string, 0, len(items))
		for _, t := range items {
			titles = append(titles, ansi.Truncate(t.Title, titleWidth, "…"))
		}
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Count()), strings.Join(titles, "\n")})
	}
	return result{
		payload: map[string]any{"data": map[string]any{"groupBy": b.GroupBy, "columns": cols}},
		header:  []string{"COLUMN", "COUNT", "TASKS"},
		rows:    rows,
	}
}
