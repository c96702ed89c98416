package composer

import (
	"strconv"
	"strings"

	"github.com/arnavshah/schedule-composer-api/pkg/models"
)

// parseHeadcount parses an edited headcount string, falling back to 1 on
// empty or non-numeric input
func parseHeadcount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 1
	}
	return n
}

// parseAmount parses an edited money string, falling back to 0 on empty
// or non-numeric input
func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// Payload projects the active editor's state into the canonical schedule
// payload. It is a pure read; emission happens in the mutation path.
func (c *Composer) Payload() models.SchedulePayload {
	switch c.active() {
	case editorFullTime:
		return c.normalizeFullTime()
	case editorRecurring:
		return c.normalizeRecurring()
	default:
		return c.normalizeSpecific()
	}
}

func (c *Composer) normalizeFullTime() models.SchedulePayload {
	shifts := make([]models.ScheduleShift, 0, 7)
	for _, slot := range c.dayMap {
		if !slot.Selected {
			continue
		}
		day := slot.DayOfWeek
		shifts = append(shifts, models.ScheduleShift{
			DayOfWeek: &day,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}
	return models.SchedulePayload{Type: models.PayloadFullTime, Shifts: shifts}
}

func (c *Composer) normalizeRecurring() models.SchedulePayload {
	shifts := make([]models.ScheduleShift, 0, len(c.recurring.SelectedDays))
	for d := 0; d < 7; d++ {
		if !c.recurring.SelectedDays[d] {
			continue
		}
		day := d
		headcount := parseHeadcount(c.recurring.Headcount)
		rate := parseAmount(c.recurring.HourlyRate)
		reward := parseAmount(c.recurring.CompletionReward)
		shifts = append(shifts, models.ScheduleShift{
			DayOfWeek:        &day,
			StartTime:        c.recurring.StartTime,
			EndTime:          c.recurring.EndTime,
			HeadcountNeeded:  &headcount,
			HourlyRate:       &rate,
			CompletionReward: &reward,
		})
	}
	return models.SchedulePayload{Type: models.PayloadPartTimeRecurring, Shifts: shifts}
}

func (c *Composer) normalizeSpecific() models.SchedulePayload {
	shifts := make([]models.ScheduleShift, 0, len(c.ledger))
	for _, s := range c.ledger {
		headcount := parseHeadcount(s.Headcount)
		rate := parseAmount(s.HourlyRate)
		reward := parseAmount(s.CompletionReward)
		shifts = append(shifts, models.ScheduleShift{
			Date:             s.Date,
			StartTime:        s.StartTime,
			EndTime:          s.EndTime,
			HeadcountNeeded:  &headcount,
			HourlyRate:       &rate,
			CompletionReward: &reward,
		})
	}
	return models.SchedulePayload{Type: models.PayloadPartTimeSpecific, Shifts: shifts}
}
