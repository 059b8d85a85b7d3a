package view

import (
	"strings"
	"time"

	calerrors "calview/internal/calendar/errors"
	"calview/pkg/model"
)

const dateLayout = "2006-01-02"

// Mode selects how wide a window the calendar shows around its anchor date.
type Mode string

const (
	ModeDay   Mode = "day"
	ModeWeek  Mode = "week"
	ModeMonth Mode = "month"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDay, ModeWeek, ModeMonth:
		return Mode(s), nil
	}
	return "", calerrors.ErrInvalidView
}

// State is the calendar's current viewport: a mode and the anchor date the
// window is computed from.
type State struct {
	Mode   Mode   `json:"mode"`
	Anchor string `json:"anchor"`
}

// Range resolves the visible date window. Weeks start on Monday; month view
// covers the anchor's calendar month.
func (s State) Range() (model.DateRange, error) {
	anchor, err := time.Parse(dateLayout, s.Anchor)
	if err != nil {
		return model.DateRange{}, err
	}

	switch s.Mode {
	case ModeDay:
		return model.DateRange{Start: s.Anchor, End: s.Anchor}, nil
	case ModeWeek:
		offset := (int(anchor.Weekday()) + 6) % 7
		start := anchor.AddDate(0, 0, -offset)
		return model.DateRange{
			Start: start.Format(dateLayout),
			End:   start.AddDate(0, 0, 6).Format(dateLayout),
		}, nil
	case ModeMonth:
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		return model.DateRange{
			Start: start.Format(dateLayout),
			End:   start.AddDate(0, 1, -1).Format(dateLayout),
		}, nil
	}
	return model.DateRange{}, calerrors.ErrInvalidView
}

// Navigate steps the anchor one window backwards (-1) or forwards (+1).
// Month steps land on the first of the month so repeated navigation never
// skips a short month.
func (s State) Navigate(direction int) (State, error) {
	anchor, err := time.Parse(dateLayout, s.Anchor)
	if err != nil {
		return State{}, err
	}

	var next time.Time
	switch s.Mode {
	case ModeDay:
		next = anchor.AddDate(0, 0, direction)
	case ModeWeek:
		next = anchor.AddDate(0, 0, 7*direction)
	case ModeMonth:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		next = first.AddDate(0, direction, 0)
	default:
		return State{}, calerrors.ErrInvalidView
	}

	return State{Mode: s.Mode, Anchor: next.Format(dateLayout)}, nil
}

// Filter narrows the merged booking collection before layout. Zero-value
// fields are pass-through: an empty staff list shows every column and an
// empty status list shows every status.
type Filter struct {
	StaffIDs          []string              `json:"staff_ids,omitempty"`
	IncludeUnassigned bool                  `json:"include_unassigned"`
	Statuses          []model.BookingStatus `json:"statuses,omitempty"`
	Search            string                `json:"search,omitempty"`
}

// Apply returns the bookings inside the date range that pass the filter.
// Search matches case-insensitively against customer, service and staff
// names.
func Apply(bookings []model.Booking, r model.DateRange, f Filter) []model.Booking {
	staffSet := make(map[string]struct{}, len(f.StaffIDs))
	for _, id := range f.StaffIDs {
		staffSet[id] = struct{}{}
	}
	statusSet := make(map[model.BookingStatus]struct{}, len(f.Statuses))
	for _, st := range f.Statuses {
		statusSet[st] = struct{}{}
	}
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if !r.Contains(b.Date) {
			continue
		}
		if len(staffSet) > 0 {
			if b.StaffID == "" {
				if !f.IncludeUnassigned {
					continue
				}
			} else if _, ok := staffSet[b.StaffID]; !ok {
				continue
			}
		}
		if len(statusSet) > 0 {
			if _, ok := statusSet[b.Status]; !ok {
				continue
			}
		}
		if needle != "" && !matchesSearch(&b, needle) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesSearch(b *model.Booking, needle string) bool {
	return strings.Contains(strings.ToLower(b.CustomerName), needle) ||
		strings.Contains(strings.ToLower(b.ServiceName), needle) ||
		strings.Contains(strings.ToLower(b.StaffName), needle)
}
