package conflict

import (
	"testing"

	"calview/pkg/model"
)

func booking(id, date, start string, duration int, staffID string, status model.BookingStatus) model.Booking {
	return model.Booking{
		ID:       id,
		Date:     date,
		Time:     start,
		Duration: duration,
		Status:   status,
		StaffID:  staffID,
	}
}

func TestDetectOverlap(t *testing.T) {
	existing := []model.Booking{
		booking("b1", "2024-06-01", "10:00", 30, "staff-1", model.StatusConfirmed),
	}

	tests := []struct {
		name     string
		check    Check
		conflict bool
	}{
		{
			name:     "partial overlap from the right",
			check:    Check{BookingID: "b2", Date: "2024-06-01", StaffID: "staff-1", StartMin: 615, Duration: 30},
			conflict: true,
		},
		{
			name:     "partial overlap from the left",
			check:    Check{BookingID: "b2", Date: "2024-06-01", StaffID: "staff-1", StartMin: 585, Duration: 30},
			conflict: true,
		},
		{
			name:     "candidate fully inside existing",
			check:    Check{BookingID: "b2", Date: "2024-06-01", StaffID: "staff-1", StartMin: 605, Duration: 10},
			conflict: true,
		},
		{
			name:     "existing fully inside candidate",
			check:    Check{BookingID: "b2", Date: "2024-06-01", StaffID: "staff-1", StartMin: 590, Duration: 60},
			conflict: true,
		},
		{
			name:     "back to back after is free",
			check:    Check{BookingID: "b2", Date: "2024-06-01", StaffID: "staff-1", StartMin: 630, Duration: 30},
			conflict: false,
		},
		{
			name:     "back to back before is free",
			check:    Check{BookingID: "b2", Date: "2024-06-01", StaffID: "staff-1", StartMin: 570, Duration: 30},
			conflict: false,
		},
		{
			name:     "different staff member",
			check:    Check{BookingID: "b2", Date: "2024-06-01", StaffID: "staff-2", StartMin: 615, Duration: 30},
			conflict: false,
		},
		{
			name:     "different date",
			check:    Check{BookingID: "b2", Date: "2024-06-02", StaffID: "staff-1", StartMin: 615, Duration: 30},
			conflict: false,
		},
		{
			name:     "same booking never conflicts with itself",
			check:    Check{BookingID: "b1", Date: "2024-06-01", StaffID: "staff-1", StartMin: 615, Duration: 30},
			conflict: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.check, existing)
			if (got != nil) != tt.conflict {
				t.Errorf("Detect() conflict = %v, want %v", got != nil, tt.conflict)
			}
		})
	}
}

func TestDetectIsSymmetric(t *testing.T) {
	a := booking("a", "2024-06-01", "10:00", 30, "staff-1", model.StatusConfirmed)
	b := booking("b", "2024-06-01", "10:15", 30, "staff-1", model.StatusConfirmed)

	aAgainstB := Detect(FromBooking(&a, a.Date, a.StaffID, a.StartMinutes(), a.Duration), []model.Booking{b})
	bAgainstA := Detect(FromBooking(&b, b.Date, b.StaffID, b.StartMinutes(), b.Duration), []model.Booking{a})

	if aAgainstB == nil || bAgainstA == nil {
		t.Fatalf("expected conflict in both directions, got a->b=%v b->a=%v", aAgainstB, bAgainstA)
	}
}

func TestDetectIdenticalStart(t *testing.T) {
	existing := []model.Booking{
		booking("b1", "2024-06-01", "10:00", 30, "staff-1", model.StatusConfirmed),
	}

	// Same starting minute collides regardless of duration.
	check := Check{BookingID: "b2", Date: "2024-06-01", StaffID: "staff-1", StartMin: 600, Duration: 0}
	if Detect(check, existing) == nil {
		t.Error("expected identical start times to conflict")
	}
}

func TestDetectReleasedSlots(t *testing.T) {
	for _, status := range []model.BookingStatus{model.StatusCancelled, model.StatusNoShow, model.StatusDeleted} {
		t.Run(string(status), func(t *testing.T) {
			existing := []model.Booking{
				booking("b1", "2024-06-01", "10:00", 30, "staff-1", status),
			}
			check := Check{BookingID: "b2", Date: "2024-06-01", StaffID: "staff-1", StartMin: 600, Duration: 30}
			if got := Detect(check, existing); got != nil {
				t.Errorf("expected %s booking to release its slot, got conflict with %s", status, got.ID)
			}
		})
	}
}

func TestDetectUnassignedNeverConflicts(t *testing.T) {
	existing := []model.Booking{
		booking("b1", "2024-06-01", "10:00", 30, "", model.StatusConfirmed),
		booking("b2", "2024-06-01", "10:00", 30, "staff-1", model.StatusConfirmed),
	}

	// A candidate headed for the unassigned column ignores everything.
	check := Check{BookingID: "b3", Date: "2024-06-01", StaffID: "", StartMin: 600, Duration: 30}
	if got := Detect(check, existing); got != nil {
		t.Errorf("unassigned candidate should never conflict, got %s", got.ID)
	}

	// An assigned candidate ignores bookings parked in the unassigned column.
	check = Check{BookingID: "b3", Date: "2024-06-01", StaffID: "staff-2", StartMin: 600, Duration: 30}
	if got := Detect(check, existing); got != nil {
		t.Errorf("unassigned bookings should not block other staff, got %s", got.ID)
	}
}
