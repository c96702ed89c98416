package composer

import (
	"sort"

	"github.com/arnavshah/schedule-composer-api/pkg/models"
	"github.com/google/uuid"
)

// Emitter receives the canonical payload after every mutation of the
// active editor
type Emitter func(models.SchedulePayload)

// DefaultMarkerColor is the highlight used for selected calendar dates
const DefaultMarkerColor = "#2F80ED"

// Editable field names accepted by SetFullTimeTime, SetRecurringField
// and UpdateShift
const (
	FieldStartTime        = "start_time"
	FieldEndTime          = "end_time"
	FieldHeadcount        = "headcount"
	FieldHourlyRate       = "hourly_rate"
	FieldCompletionReward = "completion_reward"
)

type editor int

const (
	editorFullTime editor = iota
	editorRecurring
	editorSpecific
)

// Composer holds the three mode-specific editors for one composition
// session and keeps the emitted payload in step with the active one.
// Only the editor selected by the role type (and, for part-time, the
// sub-mode) ever reaches the host; mutating an inactive editor changes
// its state but emits nothing.
type Composer struct {
	roleType  models.RoleType
	subMode   models.SubMode
	dayMap    [7]models.DaySlot
	recurring models.RecurringConfig
	ledger    []models.Shift
	emit      Emitter
}

// New creates a composer with the fixed full-time defaults (weekdays
// selected, 09:00-18:00) and an empty recurring config and shift ledger,
// then emits the initial payload so the host starts from a known state.
// The part-time sub-mode defaults to specific dates.
func New(roleType models.RoleType, emit Emitter) *Composer {
	c := &Composer{
		roleType: roleType,
		subMode:  models.SubModeSpecific,
		recurring: models.RecurringConfig{
			SelectedDays: make(map[int]bool),
		},
		emit: emit,
	}
	for d := 0; d < 7; d++ {
		c.dayMap[d] = models.DaySlot{
			DayOfWeek: d,
			Selected:  d >= 1 && d <= 5,
			StartTime: "09:00",
			EndTime:   "18:00",
		}
	}
	c.notify()
	return c
}

// RoleType returns the externally supplied role type
func (c *Composer) RoleType() models.RoleType { return c.roleType }

// SubMode returns the part-time sub-mode
func (c *Composer) SubMode() models.SubMode { return c.subMode }

// SetRoleType switches the top-level editor and re-emits
func (c *Composer) SetRoleType(rt models.RoleType) {
	if rt != models.RoleFullTime && rt != models.RolePartTime {
		return
	}
	c.roleType = rt
	c.notify()
}

// SetSubMode switches between the recurring and specific part-time
// editors and re-emits
func (c *Composer) SetSubMode(m models.SubMode) {
	if m != models.SubModeRecurring && m != models.SubModeSpecific {
		return
	}
	c.subMode = m
	c.notify()
}

func (c *Composer) active() editor {
	if c.roleType == models.RoleFullTime {
		return editorFullTime
	}
	if c.subMode == models.SubModeRecurring {
		return editorRecurring
	}
	return editorSpecific
}

// notifyFor emits only when the mutated editor is the active one
func (c *Composer) notifyFor(e editor) {
	if c.active() == e {
		c.notify()
	}
}

func (c *Composer) notify() {
	if c.emit != nil {
		c.emit(c.Payload())
	}
}

// ToggleFullTimeDay flips the selected flag of one day-map entry
func (c *Composer) ToggleFullTimeDay(day int) {
	if day < 0 || day > 6 {
		return
	}
	c.dayMap[day].Selected = !c.dayMap[day].Selected
	c.notifyFor(editorFullTime)
}

// SetFullTimeTime overwrites the start or end time of one day-map entry.
// The value is stored as-is; time-string format is a host concern.
func (c *Composer) SetFullTimeTime(day int, field, value string) {
	if day < 0 || day > 6 {
		return
	}
	switch field {
	case FieldStartTime:
		c.dayMap[day].StartTime = value
	case FieldEndTime:
		c.dayMap[day].EndTime = value
	default:
		return
	}
	c.notifyFor(editorFullTime)
}

// DayMap returns a copy of the seven full-time day slots
func (c *Composer) DayMap() [7]models.DaySlot { return c.dayMap }

// ToggleRecurringDay adds the day to the recurring pattern if absent,
// removes it otherwise
func (c *Composer) ToggleRecurringDay(day int) {
	if day < 0 || day > 6 {
		return
	}
	if c.recurring.SelectedDays[day] {
		delete(c.recurring.SelectedDays, day)
	} else {
		c.recurring.SelectedDays[day] = true
	}
	c.notifyFor(editorRecurring)
}

// SetRecurringField overwrites one scalar field of the shared recurring
// configuration. Numeric fields stay raw strings until normalization.
func (c *Composer) SetRecurringField(name, value string) {
	switch name {
	case FieldStartTime:
		c.recurring.StartTime = value
	case FieldEndTime:
		c.recurring.EndTime = value
	case FieldHeadcount:
		c.recurring.Headcount = value
	case FieldHourlyRate:
		c.recurring.HourlyRate = value
	case FieldCompletionReward:
		c.recurring.CompletionReward = value
	default:
		return
	}
	c.notifyFor(editorRecurring)
}

// Recurring returns a copy of the recurring configuration with the
// selected-day set duplicated so callers cannot mutate it
func (c *Composer) Recurring() models.RecurringConfig {
	cfg := c.recurring
	cfg.SelectedDays = make(map[int]bool, len(c.recurring.SelectedDays))
	for d := range c.recurring.SelectedDays {
		cfg.SelectedDays[d] = true
	}
	return cfg
}

func defaultShift(date string) models.Shift {
	return models.Shift{
		ID:        uuid.New().String(),
		Date:      date,
		StartTime: "09:00",
		EndTime:   "17:00",
		Headcount: "1",
	}
}

func (c *Composer) hasDate(date string) bool {
	for _, s := range c.ledger {
		if s.Date == date {
			return true
		}
	}
	return false
}

// SelectDate toggles a calendar date. A first tap seeds the date with one
// default shift; a tap on an already-selected date deletes every shift
// carrying it, returning the date to the unselected state.
func (c *Composer) SelectDate(date string) {
	if c.hasDate(date) {
		kept := c.ledger[:0]
		for _, s := range c.ledger {
			if s.Date != date {
				kept = append(kept, s)
			}
		}
		c.ledger = kept
	} else {
		c.ledger = append(c.ledger, defaultShift(date))
	}
	c.notifyFor(editorSpecific)
}

// AddShift appends another default shift to an already-selected date.
// Unseeded dates are ignored; seeding goes through SelectDate.
func (c *Composer) AddShift(date string) {
	if !c.hasDate(date) {
		return
	}
	c.ledger = append(c.ledger, defaultShift(date))
	c.notifyFor(editorSpecific)
}

// RemoveShift deletes one shift by identifier. Removing the last shift of
// a date also clears the date's calendar marker, since markers are derived
// from the ledger. Unknown identifiers are a no-op.
func (c *Composer) RemoveShift(id string) {
	for i, s := range c.ledger {
		if s.ID == id {
			c.ledger = append(c.ledger[:i], c.ledger[i+1:]...)
			c.notifyFor(editorSpecific)
			return
		}
	}
}

// UpdateShift overwrites one scalar field of one shift. Unknown
// identifiers and field names are a no-op.
func (c *Composer) UpdateShift(id, field, value string) {
	for i := range c.ledger {
		if c.ledger[i].ID != id {
			continue
		}
		switch field {
		case FieldStartTime:
			c.ledger[i].StartTime = value
		case FieldEndTime:
			c.ledger[i].EndTime = value
		case FieldHeadcount:
			c.ledger[i].Headcount = value
		case FieldHourlyRate:
			c.ledger[i].HourlyRate = value
		case FieldCompletionReward:
			c.ledger[i].CompletionReward = value
		default:
			return
		}
		c.notifyFor(editorSpecific)
		return
	}
}

// ShiftsForDate returns the shifts carrying the date, in ledger insertion
// order. The position within the result is the shift's display number.
func (c *Composer) ShiftsForDate(date string) []models.Shift {
	var out []models.Shift
	for _, s := range c.ledger {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out
}

// Shifts returns a copy of the whole ledger in insertion order
func (c *Composer) Shifts() []models.Shift {
	out := make([]models.Shift, len(c.ledger))
	copy(out, c.ledger)
	return out
}

// SortedDates returns the distinct selected dates in ascending calendar
// order. Dates are ISO strings, so lexical order is calendar order.
func (c *Composer) SortedDates() []string {
	seen := make(map[string]bool)
	var dates []string
	for _, s := range c.ledger {
		if !seen[s.Date] {
			seen[s.Date] = true
			dates = append(dates, s.Date)
		}
	}
	sort.Strings(dates)
	return dates
}

// DateMarkers derives the calendar marker map from the ledger. A date has
// a marker exactly when at least one shift carries it, so the map can
// never drift from the shift collection.
func (c *Composer) DateMarkers() map[string]models.DateMarker {
	markers := make(map[string]models.DateMarker)
	for _, s := range c.ledger {
		markers[s.Date] = models.DateMarker{
			Selected:       true,
			HighlightColor: DefaultMarkerColor,
		}
	}
	return markers
}
