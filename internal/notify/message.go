package notify

import (
	"fmt"
	"math"
	"time"

	"tasky-cli/internal/duedate"
	"tasky-cli/internal/model"
)

// Build renders the notification for a task entering cat.
func Build(cat Category, t model.DueTask, loc *time.Location) Notification {
	n := Notification{TaskID: t.ID, Category: cat, Timeout: DefaultTimeout}
	switch cat {
	case Overdue:
		n.Title = "⚠️ Task Overdue"
		n.Body = fmt.Sprintf("\"%s\" was due %s", t.Title, duedate.Format(t.FollowUpDate, loc))
	case DueSoon:
		n.Title = "⏰ Task Due Soon"
		n.Body = fmt.Sprintf("\"%s\" is due in %d minutes", t.Title, int(math.Round(t.MinutesUntilDue)))
	case DueToday:
		n.Title = "📅 Task Due Today"
		n.Body = fmt.Sprintf("\"%s\" is due today at %s", t.Title, duedate.Clock(t.FollowUpDate, loc))
	}
	return n
}

func welcome() Notification {
	return Notification{
		Title:   "Welcome!",
		Body:    "Desktop notifications are now enabled for tasky",
		Timeout: DefaultTimeout,
	}
}

func reminder(overdue int) Notification {
	task := "tasks"
	if overdue == 1 {
		task = "task"
	}
	return Notification{
		Title:    "⚠️ Overdue Reminder",
		Body:     fmt.Sprintf("You have %d overdue %s", overdue, task),
		Category: Overdue,
		Timeout:  DefaultTimeout,
	}
}
