package model

import (
	"time"

	"calview/pkg/timegrid"
)

// WeeklySchedule is a recurring working window for one day of the week.
type WeeklySchedule struct {
	Day   time.Weekday `json:"day" validate:"min=0,max=6"`
	Start string       `json:"start" validate:"required,calendar_time"`
	End   string       `json:"end" validate:"required,calendar_time"`
}

// ScheduleOverride replaces the weekly schedule on a specific date. An
// override with Off set marks the whole date as not worked.
type ScheduleOverride struct {
	Date  string `json:"date" validate:"required,calendar_date"`
	Start string `json:"start,omitempty" validate:"omitempty,calendar_time"`
	End   string `json:"end,omitempty" validate:"omitempty,calendar_time"`
	Off   bool   `json:"off,omitempty"`
}

// Staff is a bookable team member. Color is display-only and carries no
// scheduling meaning.
type Staff struct {
	ID                string             `json:"id" validate:"required"`
	Name              string             `json:"name" validate:"required"`
	Color             string             `json:"color,omitempty"`
	IsActive          bool               `json:"is_active"`
	Schedules         []WeeklySchedule   `json:"schedules,omitempty"`
	ScheduleOverrides []ScheduleOverride `json:"schedule_overrides,omitempty"`
}

// RosteredAt reports whether the staff member is rostered for the interval
// [startMin, endMin) on date. A date-specific override wins over the weekly
// schedule; a staff member with no schedule data at all is treated as always
// available.
func (s *Staff) RosteredAt(date string, startMin, endMin int) bool {
	for _, o := range s.ScheduleOverrides {
		if o.Date != date {
			continue
		}
		if o.Off {
			return false
		}
		return timegrid.ToMinutes(o.Start) <= startMin && endMin <= timegrid.ToMinutes(o.End)
	}

	if len(s.Schedules) == 0 {
		return true
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	for _, ws := range s.Schedules {
		if ws.Day != day.Weekday() {
			continue
		}
		if timegrid.ToMinutes(ws.Start) <= startMin && endMin <= timegrid.ToMinutes(ws.End) {
			return true
		}
	}
	return false
}
