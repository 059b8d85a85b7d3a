package conflict

import (
	"calview/pkg/model"
)

// Check is a candidate slot tested against the bookings already on the
// calendar. BookingID identifies the booking being moved so it never
// conflicts with itself; it is empty for new bookings.
type Check struct {
	BookingID string
	Date      string
	StaffID   string
	StartMin  int
	Duration  int
}

// EndMin returns the candidate's exclusive end in minutes since midnight.
func (c Check) EndMin() int {
	return c.StartMin + c.Duration
}

// Detect returns the first existing booking the candidate slot would collide
// with, or nil when the slot is free.
//
// A collision requires the same date and the same staff member. Bookings in
// the unassigned column never conflict: that column is a parking area and
// holds any number of overlapping bookings. Cancelled, no-show and deleted
// bookings have released their slot and are skipped. Two bookings collide
// when their intervals overlap, or when they start at the same minute even
// if one of them is degenerate.
func Detect(c Check, existing []model.Booking) *model.Booking {
	if c.StaffID == "" {
		return nil
	}

	for i := range existing {
		other := &existing[i]
		if other.ID == c.BookingID {
			continue
		}
		if other.Date != c.Date || other.StaffID != c.StaffID {
			continue
		}
		if !other.OccupiesSlot() {
			continue
		}

		otherStart := other.StartMinutes()
		otherEnd := other.EndMinutes()
		if c.StartMin < otherEnd && c.EndMin() > otherStart {
			return other
		}
		if c.StartMin == otherStart {
			return other
		}
	}

	return nil
}

// FromBooking builds a Check for moving b to a new slot.
func FromBooking(b *model.Booking, date, staffID string, startMin, duration int) Check {
	return Check{
		BookingID: b.ID,
		Date:      date,
		StaffID:   staffID,
		StartMin:  startMin,
		Duration:  duration,
	}
}
