package layout

import (
	"sort"

	"calview/pkg/model"
)

// Placement is the rendering geometry assigned to one booking within a
// staff column for a single day. Column and TotalColumns drive side-by-side
// stacking; LeftPercent and WidthPercent are the derived horizontal offsets.
type Placement struct {
	BookingID    string  `json:"booking_id"`
	Column       int     `json:"column"`
	TotalColumns int     `json:"total_columns"`
	HasOverlap   bool    `json:"has_overlap"`
	LeftPercent  float64 `json:"left_percent"`
	WidthPercent float64 `json:"width_percent"`
}

type placed struct {
	booking *model.Booking
	column  int
}

// Assign lays out the bookings of one staff member on one day so that
// overlapping bookings render side by side instead of on top of each other.
//
// Column assignment is a greedy interval coloring: bookings are walked in
// start order (longer duration first on ties, so a long booking anchors
// column 0 and shorter concurrent ones stack beside it) and each takes the
// first column that has already drained, appending a new column otherwise.
// A second pass sizes each booking against its own overlap neighborhood
// rather than the global column count, so a booking in a quiet stretch of
// the day is not narrowed by congestion elsewhere.
func Assign(bookings []model.Booking) []Placement {
	occupying := make([]*model.Booking, 0, len(bookings))
	for i := range bookings {
		if bookings[i].OccupiesSlot() {
			occupying = append(occupying, &bookings[i])
		}
	}

	sort.SliceStable(occupying, func(i, j int) bool {
		si, sj := occupying[i].StartMinutes(), occupying[j].StartMinutes()
		if si != sj {
			return si < sj
		}
		if occupying[i].Duration != occupying[j].Duration {
			return occupying[i].Duration > occupying[j].Duration
		}
		return occupying[i].ID < occupying[j].ID
	})

	// Pass 1: greedy column assignment. columnEnds[c] is the end minute of
	// the booking currently occupying column c.
	var columnEnds []int
	order := make([]placed, 0, len(occupying))
	for _, b := range occupying {
		start := b.StartMinutes()
		col := -1
		for c, end := range columnEnds {
			if end <= start {
				col = c
				break
			}
		}
		if col == -1 {
			col = len(columnEnds)
			columnEnds = append(columnEnds, 0)
		}
		columnEnds[col] = b.EndMinutes()
		order = append(order, placed{booking: b, column: col})
	}

	// Pass 2: size each booking by its local overlap neighborhood.
	placements := make([]Placement, 0, len(order))
	for i, p := range order {
		maxCol := p.column
		overlaps := false
		for j, q := range order {
			if i == j {
				continue
			}
			if intervalsOverlap(p.booking, q.booking) {
				overlaps = true
				if q.column > maxCol {
					maxCol = q.column
				}
			}
		}

		total := maxCol + 1
		width := 100.0 / float64(total)
		placements = append(placements, Placement{
			BookingID:    p.booking.ID,
			Column:       p.column,
			TotalColumns: total,
			HasOverlap:   overlaps,
			LeftPercent:  float64(p.column) * width,
			WidthPercent: width,
		})
	}

	return placements
}

// AssignByStaff groups one day's bookings by staff column and lays out each
// column independently. The empty staff key is the unassigned column.
func AssignByStaff(bookings []model.Booking) map[string][]Placement {
	byStaff := make(map[string][]model.Booking)
	for _, b := range bookings {
		byStaff[b.StaffID] = append(byStaff[b.StaffID], b)
	}

	result := make(map[string][]Placement, len(byStaff))
	for staffID, group := range byStaff {
		result[staffID] = Assign(group)
	}
	return result
}

func intervalsOverlap(a, b *model.Booking) bool {
	return a.StartMinutes() < b.EndMinutes() && a.EndMinutes() > b.StartMinutes()
}
