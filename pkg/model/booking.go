package model

import (
	"regexp"
	"time"

	"calview/pkg/timegrid"
)

// DatePattern matches calendar dates in YYYY-MM-DD form.
var DatePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)

// BookingStatus is the closed set of lifecycle states a booking moves through.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusScheduled  BookingStatus = "scheduled"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no-show"
	StatusDeleted    BookingStatus = "deleted"
	StatusOptimistic BookingStatus = "optimistic"
)

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow, StatusDeleted, StatusOptimistic:
		return true
	}
	return false
}

// Booking is a scheduled appointment occupying a staff member's time on a
// given date. Date and Time are wall-clock strings local to the business;
// the occupied interval is [Time, Time+Duration) on Date.
type Booking struct {
	ID                     string        `json:"id" validate:"required"`
	Date                   string        `json:"date" validate:"required,calendar_date"`
	Time                   string        `json:"time" validate:"required,calendar_time"`
	Duration               int           `json:"duration" validate:"required,min=1"`
	Status                 BookingStatus `json:"status" validate:"required,booking_status"`
	StaffID                string        `json:"staff_id,omitempty"`
	StaffName              string        `json:"staff_name,omitempty"`
	CustomerName           string        `json:"customer_name,omitempty"`
	ServiceName            string        `json:"service_name,omitempty"`
	CustomerRequestedStaff bool          `json:"customer_requested_staff"`
	IsLocalOnly            bool          `json:"is_local_only,omitempty"`
	LocalOnlyExpiresAt     time.Time     `json:"local_only_expires_at,omitempty"`
	CreatedAt              time.Time     `json:"created_at,omitempty"`
	UpdatedAt              time.Time     `json:"updated_at,omitempty"`
}

// StartMinutes returns the booking's start as minutes since midnight.
func (b *Booking) StartMinutes() int {
	return timegrid.ToMinutes(b.Time)
}

// EndMinutes returns the booking's exclusive end as minutes since midnight.
func (b *Booking) EndMinutes() int {
	return b.StartMinutes() + b.Duration
}

// OccupiesSlot reports whether the booking claims its time slot. Cancelled,
// no-show and deleted bookings release the slot and may be booked over.
func (b *Booking) OccupiesSlot() bool {
	switch b.Status {
	case StatusCancelled, StatusNoShow, StatusDeleted:
		return false
	}
	return true
}

// BookingPatch is a partial update applied to an existing booking. Nil fields
// are left untouched.
type BookingPatch struct {
	Date                   *string        `json:"date,omitempty" validate:"omitempty,calendar_date"`
	Time                   *string        `json:"time,omitempty" validate:"omitempty,calendar_time"`
	Duration               *int           `json:"duration,omitempty" validate:"omitempty,min=1"`
	Status                 *BookingStatus `json:"status,omitempty" validate:"omitempty,booking_status"`
	StaffID                *string        `json:"staff_id,omitempty"`
	CustomerRequestedStaff *bool          `json:"customer_requested_staff,omitempty"`
}

// ScheduleChange is the payload of a committed drag or resize: the booking's
// new slot. An empty StaffID moves the booking to the unassigned column.
type ScheduleChange struct {
	Date     string `json:"date" validate:"required,calendar_date"`
	Time     string `json:"time" validate:"required,calendar_time"`
	Duration int    `json:"duration" validate:"required,min=1"`
	StaffID  string `json:"staff_id"`
}

// DateRange is a half-open calendar window [Start, End] of whole dates, both
// in YYYY-MM-DD form.
type DateRange struct {
	Start string `json:"start" validate:"required,calendar_date"`
	End   string `json:"end" validate:"required,calendar_date"`
}

// Contains reports whether date falls inside the range. Dates in YYYY-MM-DD
// form compare correctly as strings.
func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}
