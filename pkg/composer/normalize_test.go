package composer

import (
	"testing"

	"github.com/arnavshah/schedule-composer-api/pkg/models"
)

func TestFullTimeDefaultNormalization(t *testing.T) {
	c := New(models.RoleFullTime, nil)

	payload := c.Payload()
	if payload.Type != models.PayloadFullTime {
		t.Fatalf("Expected full_time payload, got %s", payload.Type)
	}

	// Defaults: Monday through Friday selected, weekend off
	if len(payload.Shifts) != 5 {
		t.Fatalf("Expected 5 default shifts, got %d", len(payload.Shifts))
	}
	for i, s := range payload.Shifts {
		if s.DayOfWeek == nil {
			t.Fatalf("Expected day_of_week on shift %d", i)
		}
		if *s.DayOfWeek != i+1 {
			t.Errorf("Expected shift %d on day %d, got %d", i, i+1, *s.DayOfWeek)
		}
		if s.StartTime != "09:00" || s.EndTime != "18:00" {
			t.Errorf("Expected default 09:00-18:00, got %s-%s", s.StartTime, s.EndTime)
		}
	}
}

func TestFullTimeToggleAndTimeEdit(t *testing.T) {
	c := New(models.RoleFullTime, nil)

	c.ToggleFullTimeDay(0) // add Sunday
	c.ToggleFullTimeDay(3) // drop Wednesday
	c.SetFullTimeTime(1, FieldStartTime, "07:30")

	payload := c.Payload()
	if len(payload.Shifts) != 5 {
		t.Fatalf("Expected 5 shifts after toggles, got %d", len(payload.Shifts))
	}

	if *payload.Shifts[0].DayOfWeek != 0 {
		t.Errorf("Expected Sunday first, got day %d", *payload.Shifts[0].DayOfWeek)
	}
	for _, s := range payload.Shifts {
		if *s.DayOfWeek == 3 {
			t.Error("Expected Wednesday to be dropped")
		}
		if *s.DayOfWeek == 1 && s.StartTime != "07:30" {
			t.Errorf("Expected Monday start 07:30, got %s", s.StartTime)
		}
	}
}

func TestRecurringNormalization(t *testing.T) {
	c := New(models.RolePartTime, nil)
	c.SetSubMode(models.SubModeRecurring)

	c.ToggleRecurringDay(5)
	c.ToggleRecurringDay(2)
	c.SetRecurringField(FieldStartTime, "18:00")
	c.SetRecurringField(FieldEndTime, "22:00")
	c.SetRecurringField(FieldHeadcount, "3")
	c.SetRecurringField(FieldHourlyRate, "12.5")
	c.SetRecurringField(FieldCompletionReward, "20")

	payload := c.Payload()
	if payload.Type != models.PayloadPartTimeRecurring {
		t.Fatalf("Expected part_time_recurring payload, got %s", payload.Type)
	}
	if len(payload.Shifts) != 2 {
		t.Fatalf("Expected 2 shifts, got %d", len(payload.Shifts))
	}

	// Days come out in ascending weekday order regardless of toggle order
	if *payload.Shifts[0].DayOfWeek != 2 || *payload.Shifts[1].DayOfWeek != 5 {
		t.Errorf("Expected days [2 5], got [%d %d]", *payload.Shifts[0].DayOfWeek, *payload.Shifts[1].DayOfWeek)
	}

	s := payload.Shifts[0]
	if s.StartTime != "18:00" || s.EndTime != "22:00" {
		t.Errorf("Expected 18:00-22:00, got %s-%s", s.StartTime, s.EndTime)
	}
	if *s.HeadcountNeeded != 3 {
		t.Errorf("Expected headcount 3, got %d", *s.HeadcountNeeded)
	}
	if *s.HourlyRate != 12.5 {
		t.Errorf("Expected rate 12.5, got %f", *s.HourlyRate)
	}
	if *s.CompletionReward != 20 {
		t.Errorf("Expected reward 20, got %f", *s.CompletionReward)
	}
}

func TestRecurringNormalizationDefaults(t *testing.T) {
	c := New(models.RolePartTime, nil)
	c.SetSubMode(models.SubModeRecurring)

	c.ToggleRecurringDay(1)
	c.SetRecurringField(FieldHeadcount, "abc")
	c.SetRecurringField(FieldHourlyRate, "")

	s := c.Payload().Shifts[0]
	if *s.HeadcountNeeded != 1 {
		t.Errorf("Expected non-numeric headcount to default to 1, got %d", *s.HeadcountNeeded)
	}
	if *s.HourlyRate != 0 {
		t.Errorf("Expected empty rate to default to 0, got %f", *s.HourlyRate)
	}
	if *s.CompletionReward != 0 {
		t.Errorf("Expected unset reward to default to 0, got %f", *s.CompletionReward)
	}
}

func TestRecurringToggleRemovesDay(t *testing.T) {
	c := New(models.RolePartTime, nil)
	c.SetSubMode(models.SubModeRecurring)

	c.ToggleRecurringDay(4)
	c.ToggleRecurringDay(4)

	if got := len(c.Payload().Shifts); got != 0 {
		t.Errorf("Expected toggling a day twice to leave it unselected, got %d shifts", got)
	}
}

func TestSpecificNormalizationLedgerOrderAndParsing(t *testing.T) {
	c := New(models.RolePartTime, nil)

	c.SelectDate("2025-07-01")
	c.SelectDate("2025-06-10")
	id := c.ShiftsForDate("2025-06-10")[0].ID
	c.UpdateShift(id, FieldHeadcount, "abc")
	c.UpdateShift(id, FieldHourlyRate, "")
	c.UpdateShift(id, FieldCompletionReward, "7.25")

	payload := c.Payload()
	if payload.Type != models.PayloadPartTimeSpecific {
		t.Fatalf("Expected part_time_specific payload, got %s", payload.Type)
	}
	if len(payload.Shifts) != 2 {
		t.Fatalf("Expected 2 shifts, got %d", len(payload.Shifts))
	}

	// Ledger insertion order, not calendar order
	if payload.Shifts[0].Date != "2025-07-01" || payload.Shifts[1].Date != "2025-06-10" {
		t.Errorf("Expected ledger order [2025-07-01 2025-06-10], got [%s %s]",
			payload.Shifts[0].Date, payload.Shifts[1].Date)
	}

	edited := payload.Shifts[1]
	if *edited.HeadcountNeeded != 1 {
		t.Errorf("Expected non-numeric headcount to default to 1, got %d", *edited.HeadcountNeeded)
	}
	if *edited.HourlyRate != 0 {
		t.Errorf("Expected empty rate to default to 0, got %f", *edited.HourlyRate)
	}
	if *edited.CompletionReward != 7.25 {
		t.Errorf("Expected reward 7.25, got %f", *edited.CompletionReward)
	}
}

func TestRoleSwitchChangesPayloadType(t *testing.T) {
	var last models.SchedulePayload
	c := New(models.RoleFullTime, func(p models.SchedulePayload) {
		last = p
	})

	if last.Type != models.PayloadFullTime {
		t.Fatalf("Expected full_time payload for a full-time session, got %s", last.Type)
	}

	c.SetRoleType(models.RolePartTime)
	if last.Type != models.PayloadPartTimeSpecific {
		t.Errorf("Expected role switch to re-emit as part_time_specific, got %s", last.Type)
	}

	c.SetSubMode(models.SubModeRecurring)
	if last.Type != models.PayloadPartTimeRecurring {
		t.Errorf("Expected sub-mode switch to re-emit as part_time_recurring, got %s", last.Type)
	}
}
