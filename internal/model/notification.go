package model

// NotificationCheck is the GET /api/tasks/notification-check response.
type NotificationCheck struct {
	Overdue  []DueTask `json:"overdue"`
	DueSoon  []DueTask `json:"dueSoon"`
	DueToday []DueTask `json:"dueToday"`
}

// DueTask is a task annotated by the server's due-date classifier.
type DueTask struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	FollowUpDate    string  `json:"follow_up_date"`
	CustomerName    string  `json:"customer_name,omitempty"`
	Priority        string  `json:"priority,omitempty"`
	Status          string  `json:"status,omitempty"`
	MinutesUntilDue float64 `json:"minutesUntilDue,omitempty"`
}

// IDs returns the ids of ts in order.
func IDs(ts []DueTask) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}
