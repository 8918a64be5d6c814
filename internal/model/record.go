package model

import (
	"strconv"
	"strings"
)

// Field returns the named field as a string for filtering, grouping and sorting.
func (t Task) Field(name string) string {
	switch name {
	case "id":
		return t.ID
	case "title":
		return t.Title
	case "description":
		return t.Description
	case "customer", "customer_name":
		return t.CustomerName
	case "category", "type":
		return t.Category
	case "priority":
		return t.Priority
	case "status":
		return t.Status
	case "follow_up_date", "date":
		return t.FollowUpDate
	case "assigned_to", "assignee":
		return t.AssignedTo
	case "tags":
		return t.Tags
	case "project", "project_id":
		if t.ProjectID == nil {
			return ""
		}
		return *t.ProjectID
	case "topic_id":
		if t.TopicID == nil {
			return ""
		}
		return *t.TopicID
	case "created_date":
		return t.CreatedDate
	default:
		return ""
	}
}

func (t Task) SearchText() []string {
	return []string{t.Title, t.Description, t.CustomerName, t.AssignedTo, t.Tags}
}

func (d Deal) Field(name string) string {
	switch name {
	case "id":
		return d.ID
	case "customer", "customerName":
		return d.CustomerName
	case "customerType":
		return d.CustomerType
	case "type", "dealType":
		return d.DealType
	case "status", "dealStatus":
		return d.DealStatus
	case "financial_year":
		return d.FinancialYear
	case "salesforceId":
		return d.SalesforceID
	case "dealForecast":
		return formatAmount(d.DealForecast)
	case "dealActual":
		return formatAmount(d.DealActual)
	case "date_won", "date":
		return d.DateWon
	default:
		return ""
	}
}

func (d Deal) SearchText() []string {
	return []string{d.SalesforceID, d.CustomerName, d.DealSummary}
}

func (d Deal) IsClosed() bool { return false }

func (m Meeting) Field(name string) string {
	switch name {
	case "id":
		return m.ID
	case "title":
		return m.Title
	case "status":
		return m.Status
	case "type":
		return m.Type
	case "customer", "customerName":
		return m.CustomerName
	case "project", "projectName":
		return m.ProjectName
	case "location":
		return m.Location
	case "date":
		if m.Date == "" {
			return ""
		}
		t := m.Time
		if t == "" {
			t = "00:00"
		}
		return m.Date + "T" + t
	case "attendees":
		return strconv.Itoa(len(m.Attendees))
	default:
		return ""
	}
}

func (m Meeting) SearchText() []string {
	return []string{m.Title, m.Location, m.CustomerName, m.ProjectName, strings.Join(m.Tags, ",")}
}

func (m Meeting) IsClosed() bool { return false }

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
