package model

import "strings"

// Config holds the dropdown option lists served by GET /api/config.
type Config struct {
	Categories        []string `json:"categories"`
	Statuses          []string `json:"statuses"`
	Priorities        []string `json:"priorities"`
	Tags              []string `json:"tags"`
	DealCustomerTypes []string `json:"dealCustomerTypes"`
	DealTypes         []string `json:"dealTypes"`
	DealStatuses      []string `json:"dealStatuses"`
	CSMLocations      []string `json:"csmLocations"`
}

// DefaultConfig returns the built-in option lists used when the server config
// is missing or empty.
func DefaultConfig() Config {
	return Config{
		Categories:        []string{"Development", "Support", "Bug", "Feature", "Documentation"},
		Statuses:          []string{StatusOpen, StatusInProgress, StatusPending, StatusCompleted, StatusCancelled},
		Priorities:        []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent},
		Tags:              []string{"Frontend", "Backend", "Database", "API", "UI", "Security"},
		DealCustomerTypes: []string{"New Customer", "Existing Customer"},
		DealTypes:         []string{"BNCE", "BNCF", "Advisory", "RTS"},
		DealStatuses:      []string{"Open", "Won", "Lost"},
		CSMLocations:      []string{"Onshore", "Offshore"},
	}
}

// WithDefaults fills every empty list from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	fill := func(v, def []string) []string {
		if len(v) == 0 {
			return def
		}
		return v
	}
	c.Categories = fill(c.Categories, d.Categories)
	c.Statuses = fill(c.Statuses, d.Statuses)
	c.Priorities = fill(c.Priorities, d.Priorities)
	c.Tags = fill(c.Tags, d.Tags)
	c.DealCustomerTypes = fill(c.DealCustomerTypes, d.DealCustomerTypes)
	c.DealTypes = fill(c.DealTypes, d.DealTypes)
	c.DealStatuses = fill(c.DealStatuses, d.DealStatuses)
	c.CSMLocations = fill(c.CSMLocations, d.CSMLocations)
	return c
}

// OptionsFor returns the configured option list for a board grouping field.
// ok is false for free-text groupings (customer), whose columns come from the data.
func (c Config) OptionsFor(groupBy string) (opts []string, ok bool) {
	switch groupBy {
	case "status":
		return append([]string(nil), c.Statuses...), true
	case "category":
		return append([]string(nil), c.Categories...), true
	case "priority":
		return append([]string(nil), c.Priorities...), true
	case "dealStatus":
		return append([]string(nil), c.DealStatuses...), true
	case "dealType":
		return append([]string(nil), c.DealTypes...), true
	case "customerType":
		return append([]string(nil), c.DealCustomerTypes...), true
	default:
		return nil, false
	}
}

const (
	ProviderClaude = "claude"
	ProviderNone   = "none"
)

// Settings mirrors GET/POST /api/settings.
type Settings struct {
	AIProvider           string `json:"ai_provider"`
	APIKey               string `json:"api_key,omitempty"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	CheckInterval        int    `json:"check_interval,omitempty"`
}

// KeyMasked reports whether APIKey is the server's masked echo ("***" + last 4).
func (s Settings) KeyMasked() bool {
	return strings.HasPrefix(s.APIKey, "***")
}

// HasKey reports whether a key is configured, masked or not.
func (s Settings) HasKey() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

// MaskKey renders a key the way the server echoes it back.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "***" + key
	}
	return "***" + key[len(key)-4:]
}
