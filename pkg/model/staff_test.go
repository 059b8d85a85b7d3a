package model

import (
	"testing"
	"time"
)

func TestRosteredAt_WeeklySchedule(t *testing.T) {
	staff := &Staff{
		ID:   "staff-1",
		Name: "Alex",
		Schedules: []WeeklySchedule{
			{Day: time.Saturday, Start: "09:00", End: "17:00"},
		},
	}

	// 2024-06-01 is a Saturday.
	if !staff.RosteredAt("2024-06-01", 540, 600) {
		t.Error("expected rostered inside the Saturday window")
	}
	if staff.RosteredAt("2024-06-01", 480, 600) {
		t.Error("expected not rostered before shift start")
	}
	// 2024-06-02 is a Sunday with no schedule.
	if staff.RosteredAt("2024-06-02", 540, 600) {
		t.Error("expected not rostered on an unscheduled day")
	}
}

func TestRosteredAt_OverrideWins(t *testing.T) {
	staff := &Staff{
		ID:   "staff-1",
		Name: "Alex",
		Schedules: []WeeklySchedule{
			{Day: time.Saturday, Start: "09:00", End: "17:00"},
		},
		ScheduleOverrides: []ScheduleOverride{
			{Date: "2024-06-01", Off: true},
			{Date: "2024-06-08", Start: "12:00", End: "15:00"},
		},
	}

	if staff.RosteredAt("2024-06-01", 540, 600) {
		t.Error("day-off override should win over the weekly schedule")
	}
	if staff.RosteredAt("2024-06-08", 540, 600) {
		t.Error("override window should replace the weekly window")
	}
	if !staff.RosteredAt("2024-06-08", 720, 780) {
		t.Error("expected rostered inside the override window")
	}
}

func TestRosteredAt_NoScheduleData(t *testing.T) {
	staff := &Staff{ID: "staff-1", Name: "Alex"}
	if !staff.RosteredAt("2024-06-01", 0, 1440) {
		t.Error("staff without schedule data should always be available")
	}
}

func TestBookingIntervals(t *testing.T) {
	b := &Booking{ID: "b1", Date: "2024-06-01", Time: "10:00", Duration: 30}
	if b.StartMinutes() != 600 {
		t.Errorf("StartMinutes = %d, want 600", b.StartMinutes())
	}
	if b.EndMinutes() != 630 {
		t.Errorf("EndMinutes = %d, want 630", b.EndMinutes())
	}
}

func TestOccupiesSlot(t *testing.T) {
	tests := []struct {
		status BookingStatus
		want   bool
	}{
		{StatusConfirmed, true},
		{StatusPending, true},
		{StatusOptimistic, true},
		{StatusCancelled, false},
		{StatusNoShow, false},
		{StatusDeleted, false},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.status}
		if got := b.OccupiesSlot(); got != tt.want {
			t.Errorf("OccupiesSlot with status %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: "2024-06-01", End: "2024-06-07"}
	if !r.Contains("2024-06-01") || !r.Contains("2024-06-07") || !r.Contains("2024-06-04") {
		t.Error("range should include its bounds and interior dates")
	}
	if r.Contains("2024-05-31") || r.Contains("2024-06-08") {
		t.Error("range should exclude dates outside it")
	}
}
