package composer

import (
	"testing"

	"github.com/arnavshah/schedule-composer-api/pkg/models"
)

func TestStoreCreateAndGet(t *testing.T) {
	st := NewStore()

	s := st.Create(models.RolePartTime, nil)
	if s.ID == "" {
		t.Fatal("Expected a generated session ID")
	}

	got, ok := st.Get(s.ID)
	if !ok || got != s {
		t.Error("Expected Get to return the created session")
	}

	if _, ok := st.Get("missing"); ok {
		t.Error("Expected Get on an unknown ID to miss")
	}

	if st.Count() != 1 {
		t.Errorf("Expected 1 live session, got %d", st.Count())
	}
}

func TestStoreDelete(t *testing.T) {
	st := NewStore()
	s := st.Create(models.RoleFullTime, nil)

	st.Delete(s.ID)
	if _, ok := st.Get(s.ID); ok {
		t.Error("Expected session to be gone after delete")
	}

	// Deleting again is harmless
	st.Delete(s.ID)
	if st.Count() != 0 {
		t.Errorf("Expected 0 live sessions, got %d", st.Count())
	}
}

func TestSessionLatestTracksEmissions(t *testing.T) {
	st := NewStore()
	s := st.Create(models.RolePartTime, nil)

	if got := s.Latest().Type; got != models.PayloadPartTimeSpecific {
		t.Fatalf("Expected initial latest payload to be part_time_specific, got %s", got)
	}

	payload := s.Do(func(c *Composer) {
		c.SelectDate("2025-06-10")
	})

	if len(payload.Shifts) != 1 {
		t.Errorf("Expected Do to return the post-mutation payload with 1 shift, got %d", len(payload.Shifts))
	}
	if len(s.Latest().Shifts) != 1 {
		t.Errorf("Expected Latest to track the emission, got %d shifts", len(s.Latest().Shifts))
	}
}

func TestStoreEmitHook(t *testing.T) {
	st := NewStore()

	var gotID string
	emissions := 0
	s := st.Create(models.RolePartTime, func(sessionID string, p models.SchedulePayload) {
		gotID = sessionID
		emissions++
	})

	if emissions != 1 {
		t.Fatalf("Expected the hook to observe the initial emission, got %d", emissions)
	}
	if gotID != s.ID {
		t.Errorf("Expected hook to receive session ID %s, got %s", s.ID, gotID)
	}

	s.Do(func(c *Composer) {
		c.SelectDate("2025-06-10")
	})
	if emissions != 2 {
		t.Errorf("Expected 2 emissions after one mutation, got %d", emissions)
	}
}
