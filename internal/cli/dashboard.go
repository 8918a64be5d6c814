package cli

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show task counts, overdue and urgent tasks, and objectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.api().TaskSummary(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := [][]string{
				{"Total", strconv.Itoa(d.Total)},
				{"Due today", strconv.Itoa(d.DueToday)},
				{"Overdue", strconv.Itoa(d.Overdue)},
				{"Urgent", strconv.Itoa(len(d.Urgent))},
				{"Upcoming", strconv.Itoa(len(d.Upcoming))},
				{"Active objectives", strconv.Itoa(d.ActiveObjectives)},
			}
			customers := make([]string, 0, len(d.ByCustomer))
			for c := range d.ByCustomer {
				customers = append(customers, c)
			}
			sort.Strings(customers)
			for _, c := range customers {
				rows = append(rows, []string{"Customer: " + c, strconv.Itoa(d.ByCustomer[c])})
			}
			return writeOut(cmd, app, result{
				payload: map[string]any{"data": d},
				header:  []string{"METRIC", "VALUE"},
				rows:    rows,
			})
		},
	}
}
