package model

import "encoding/json"

type Meeting struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Date         string            `json:"date"`
	Time         string            `json:"time,omitempty"`
	Location     string            `json:"location,omitempty"`
	Status       string            `json:"status,omitempty"`
	Type         string            `json:"type,omitempty"`
	CustomerName string            `json:"customerName,omitempty"`
	ProjectName  string            `json:"projectName,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Attendees    []json.RawMessage `json:"attendees,omitempty"`
}
