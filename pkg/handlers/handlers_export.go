package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arnavshah/schedule-composer-api/pkg/composer"
	"github.com/arnavshah/schedule-composer-api/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/teambition/rrule-go"
)

// Weekday index 0 (Sunday) through 6 (Saturday)
var rruleWeekdays = []rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// PreviewRecurring expands the session's recurring weekly pattern into
// the concrete dates it would produce between start_date and end_date.
// Preview only; the emitted payload stays day-of-week based.
func (h *Handler) PreviewRecurring(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	layout := "2006-01-02"
	startDate, err := time.Parse(layout, c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format"})
		return
	}
	endDate, err := time.Parse(layout, c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date format"})
		return
	}

	var cfg models.RecurringConfig
	s.Do(func(cp *composer.Composer) {
		cfg = cp.Recurring()
	})

	occurrences := []gin.H{}
	if len(cfg.SelectedDays) > 0 {
		var byweekday []rrule.Weekday
		for d := 0; d < 7; d++ {
			if cfg.SelectedDays[d] {
				byweekday = append(byweekday, rruleWeekdays[d])
			}
		}

		r, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: byweekday,
			Dtstart:   startDate,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build recurrence rule"})
			return
		}

		for _, instance := range r.Between(startDate, endDate, true) {
			occurrences = append(occurrences, gin.H{
				"date":       instance.Format(layout),
				"start_time": cfg.StartTime,
				"end_time":   cfg.EndTime,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"occurrences": occurrences})
}

// ExportCSV renders the session's current payload as CSV, one row per
// normalized shift
func (h *Handler) ExportCSV(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	payload := s.Latest()

	var out strings.Builder
	writer := csv.NewWriter(&out)
	writer.Write([]string{"type", "date", "day_of_week", "start_time", "end_time", "headcount_needed", "hourly_rate", "completion_reward"})

	for _, shift := range payload.Shifts {
		day := ""
		if shift.DayOfWeek != nil {
			day = strconv.Itoa(*shift.DayOfWeek)
		}
		headcount := ""
		if shift.HeadcountNeeded != nil {
			headcount = strconv.Itoa(*shift.HeadcountNeeded)
		}
		rate := ""
		if shift.HourlyRate != nil {
			rate = strconv.FormatFloat(*shift.HourlyRate, 'f', -1, 64)
		}
		reward := ""
		if shift.CompletionReward != nil {
			reward = strconv.FormatFloat(*shift.CompletionReward, 'f', -1, 64)
		}

		writer.Write([]string{
			payload.Type,
			shift.Date,
			day,
			shift.StartTime,
			shift.EndTime,
			headcount,
			rate,
			reward,
		})
	}
	writer.Flush()

	h.RecordUsage(c, 0, 0)
	c.JSON(http.StatusOK, gin.H{"csv": out.String()})
}

// ValidatePayload checks a canonical schedule payload a host intends to
// submit: known type tag, day indexes in range, dates parseable, no
// duplicate weekdays within weekly payloads
func (h *Handler) ValidatePayload(c *gin.Context) {
	var payload models.SchedulePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	switch payload.Type {
	case models.PayloadFullTime, models.PayloadPartTimeRecurring, models.PayloadPartTimeSpecific:
	default:
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Unknown schedule type: " + payload.Type})
		return
	}

	seenDays := make(map[int]bool)
	for _, shift := range payload.Shifts {
		if payload.Type == models.PayloadPartTimeSpecific {
			if _, err := time.Parse("2006-01-02", shift.Date); err != nil {
				c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Invalid shift date: " + shift.Date})
				return
			}
			continue
		}

		if shift.DayOfWeek == nil || *shift.DayOfWeek < 0 || *shift.DayOfWeek > 6 {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "day_of_week must be between 0 and 6"})
			return
		}
		if seenDays[*shift.DayOfWeek] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate day_of_week: " + strconv.Itoa(*shift.DayOfWeek)})
			return
		}
		seenDays[*shift.DayOfWeek] = true
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"schedule_type": payload.Type,
			"shift_count":   len(payload.Shifts),
		},
	})
}
