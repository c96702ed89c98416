package models

// RoleType selects the top-level schedule editor for a posting
type RoleType string

const (
	RoleFullTime RoleType = "full_time"
	RolePartTime RoleType = "part_time"
)

// SubMode selects the part-time editor variant
type SubMode string

const (
	SubModeRecurring SubMode = "recurring"
	SubModeSpecific  SubMode = "specific"
)

// DaySlot is one day-of-week entry in the full-time day map.
// Index 0 is Sunday, 6 is Saturday.
type DaySlot struct {
	DayOfWeek int    `json:"day_of_week"`
	Selected  bool   `json:"selected"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// RecurringConfig is the shared configuration applied to every selected
// weekday of a recurring part-time pattern. Numeric fields stay raw strings
// while editing and are parsed at normalization time.
type RecurringConfig struct {
	SelectedDays     map[int]bool `json:"selected_days"`
	StartTime        string       `json:"start_time"`
	EndTime          string       `json:"end_time"`
	Headcount        string       `json:"headcount"`
	HourlyRate       string       `json:"hourly_rate"`
	CompletionReward string       `json:"completion_reward"`
}

// Shift is one concrete work block on one calendar date
type Shift struct {
	ID               string `json:"id"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Headcount        string `json:"headcount"`
	HourlyRate       string `json:"hourly_rate"`
	CompletionReward string `json:"completion_reward"`
}

// DateMarker is what the calendar surface renders for a selected date
type DateMarker struct {
	Selected       bool   `json:"selected"`
	HighlightColor string `json:"highlight_color"`
}

// ScheduleShift is one entry of the canonical output payload. Which fields
// are present depends on the payload type: full_time carries day_of_week and
// times only, part_time_recurring adds the parsed numeric fields, and
// part_time_specific replaces day_of_week with a calendar date.
type ScheduleShift struct {
	DayOfWeek        *int     `json:"day_of_week,omitempty"`
	Date             string   `json:"date,omitempty"`
	StartTime        string   `json:"start_time"`
	EndTime          string   `json:"end_time"`
	HeadcountNeeded  *int     `json:"headcount_needed,omitempty"`
	HourlyRate       *float64 `json:"hourly_rate,omitempty"`
	CompletionReward *float64 `json:"completion_reward,omitempty"`
}

// SchedulePayload is the canonical schedule description emitted to the host
// on every mutation of the active editor
type SchedulePayload struct {
	Type   string          `json:"type"`
	Shifts []ScheduleShift `json:"shifts"`
}

// Payload type tags
const (
	PayloadFullTime          = "full_time"
	PayloadPartTimeRecurring = "part_time_recurring"
	PayloadPartTimeSpecific  = "part_time_specific"
)
