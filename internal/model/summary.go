package model

// SummaryRequest is the POST /api/ai/summary body.
type SummaryRequest struct {
	IncludeCompletedCancelled bool `json:"includeCompletedCancelled"`
	ForceRegenerate           bool `json:"forceRegenerate"`
}

// SummaryResult is the POST /api/ai/summary response. Error is set instead of
// Summary when the server refuses to generate.
type SummaryResult struct {
	Summary         string `json:"summary"`
	Cached          bool   `json:"cached"`
	CacheAgeMinutes int    `json:"cache_age_minutes,omitempty"`
	CacheTimestamp  string `json:"cache_timestamp,omitempty"`
	Error           string `json:"error,omitempty"`
}

// CacheStatus is the GET /api/ai/summary/cache-status response.
type CacheStatus struct {
	HasCache                  bool    `json:"has_cache"`
	AgeHours                  float64 `json:"age_hours,omitempty"`
	AgeMinutes                int     `json:"age_minutes,omitempty"`
	Timestamp                 string  `json:"timestamp,omitempty"`
	IncludeCompletedCancelled bool    `json:"include_completed_cancelled"`
	IsValid                   bool    `json:"is_valid"`
}

// DashboardSummary is the GET /api/tasks/summary response.
type DashboardSummary struct {
	Total            int            `json:"total"`
	DueToday         int            `json:"due_today"`
	Overdue          int            `json:"overdue"`
	OverdueTasks     []Task         `json:"overdue_tasks"`
	Urgent           []Task         `json:"urgent"`
	Upcoming         []Task         `json:"upcoming"`
	ByCustomer       map[string]int `json:"by_customer"`
	Objectives       []Objective    `json:"objectives"`
	ActiveObjectives int            `json:"active_objectives"`
}

type Objective struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Status   string  `json:"status,omitempty"`
	Progress float64 `json:"progress,omitempty"`
}
