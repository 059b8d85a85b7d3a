package gesture

import (
	"math"
	"sync"

	"calview/internal/calendar/conflict"
	calerrors "calview/internal/calendar/errors"
	"calview/pkg/model"
	"calview/pkg/timegrid"
)

// Kind discriminates the active gesture.
type Kind string

const (
	KindDrag        Kind = "drag"
	KindResizeStart Kind = "resize-start"
	KindResizeEnd   Kind = "resize-end"
)

// DropTarget is a candidate slot under the pointer during a drag.
type DropTarget struct {
	StaffID  string `json:"staff_id"`
	Date     string `json:"date" validate:"required,calendar_date"`
	StartMin int    `json:"start_min" validate:"min=0,max=1439"`
}

// Preview is the live geometry of the gesture, exposed to the rendering
// layer while the pointer is still down. Nothing has been committed yet.
type Preview struct {
	BookingID string `json:"booking_id"`
	Kind      Kind   `json:"kind"`
	StaffID   string `json:"staff_id"`
	Date      string `json:"date"`
	StartMin  int    `json:"start_min"`
	EndMin    int    `json:"end_min"`
}

// Commit is the outcome of a released gesture: the booking's new slot,
// ready for the optimistic store update and the API mutation. A nil Commit
// from a release means the gesture was a no-op.
type Commit struct {
	Booking model.Booking
	Change  model.ScheduleChange
}

// ConflictFunc checks a candidate slot against the current calendar and
// returns the colliding booking, or nil when the slot is free.
type ConflictFunc func(conflict.Check) *model.Booking

// Params fixes the grid geometry the machine clamps against.
type Params struct {
	GridInterval int
	DayStartMin  int
	DayEndMin    int
}

type active struct {
	kind    Kind
	booking model.Booking

	// drag
	target *DropTarget

	// resize
	origStart float64
	origEnd   float64
	initialY  float64
	pxPerStep float64
	lastDelta int
	curStart  int
	curEnd    int
}

// Machine tracks the single in-flight drag or resize gesture. Only one
// gesture may be active at a time; a second start is rejected rather than
// silently interrupting the first. Every release and cancellation path
// resets the machine unconditionally, including error paths.
type Machine struct {
	mu       sync.Mutex
	params   Params
	minDur   int
	conflict ConflictFunc
	gesture  *active
}

func NewMachine(params Params, conflictFn ConflictFunc) *Machine {
	return &Machine{
		params:   params,
		minDur:   timegrid.MinDuration(params.GridInterval),
		conflict: conflictFn,
	}
}

// Active reports the kind of the gesture in flight, if any.
func (m *Machine) Active() (Kind, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gesture == nil {
		return "", "", false
	}
	return m.gesture.kind, m.gesture.booking.ID, true
}

// Cancel discards the in-flight gesture without committing anything.
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gesture = nil
}

// StartDrag begins moving a booking.
func (m *Machine) StartDrag(b model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gesture != nil {
		return calerrors.ErrGestureActive
	}
	m.gesture = &active{kind: KindDrag, booking: b}
	return nil
}

// HoverDrag records the drop target under the pointer and returns the live
// preview. The store is not touched.
func (m *Machine) HoverDrag(target DropTarget) (Preview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := m.gesture
	if g == nil {
		return Preview{}, calerrors.ErrNoGesture
	}
	if g.kind != KindDrag {
		return Preview{}, calerrors.ErrGestureMismatch
	}

	target.StartMin = m.clampStart(timegrid.Snap(target.StartMin, m.params.GridInterval), g.booking.Duration)
	g.target = &target

	return Preview{
		BookingID: g.booking.ID,
		Kind:      KindDrag,
		StaffID:   target.StaffID,
		Date:      target.Date,
		StartMin:  target.StartMin,
		EndMin:    target.StartMin + g.booking.Duration,
	}, nil
}

// ReleaseDrag ends the drag. Dropping on the booking's current slot is a
// no-op; a conflicting target discards the gesture with ErrTimeConflict.
// The machine is reset whatever the outcome.
func (m *Machine) ReleaseDrag(target *DropTarget) (*Commit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := m.gesture
	if g == nil {
		return nil, calerrors.ErrNoGesture
	}
	if g.kind != KindDrag {
		return nil, calerrors.ErrGestureMismatch
	}
	defer func() { m.gesture = nil }()

	if target == nil {
		target = g.target
	}
	if target == nil {
		return nil, nil
	}
	target.StartMin = m.clampStart(timegrid.Snap(target.StartMin, m.params.GridInterval), g.booking.Duration)

	b := g.booking
	if target.Date == b.Date && target.StaffID == b.StaffID && target.StartMin == b.StartMinutes() {
		return nil, nil
	}

	check := conflict.FromBooking(&b, target.Date, target.StaffID, target.StartMin, b.Duration)
	if hit := m.conflict(check); hit != nil {
		return nil, calerrors.ErrTimeConflict
	}

	return &Commit{
		Booking: b,
		Change: model.ScheduleChange{
			Date:     target.Date,
			Time:     timegrid.FromMinutes(target.StartMin),
			Duration: b.Duration,
			StaffID:  target.StaffID,
		},
	}, nil
}

// StartResize begins resizing a booking from its start or end edge,
// capturing the pointer's initial position.
func (m *Machine) StartResize(b model.Booking, kind Kind, pointerY, pixelsPerInterval float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if kind != KindResizeStart && kind != KindResizeEnd {
		return calerrors.ErrGestureMismatch
	}
	if m.gesture != nil {
		return calerrors.ErrGestureActive
	}
	if pixelsPerInterval <= 0 {
		return calerrors.ErrInvalidResize
	}

	start := b.StartMinutes()
	end := b.EndMinutes()
	m.gesture = &active{
		kind:      kind,
		booking:   b,
		origStart: float64(start),
		origEnd:   float64(end),
		initialY:  pointerY,
		pxPerStep: pixelsPerInterval,
		curStart:  start,
		curEnd:    end,
	}
	return nil
}

// MoveResize recomputes the edge position from the pointer's travel. The
// preview only changes when the pointer has crossed into a new grid
// interval; sub-threshold movement reports changed=false.
func (m *Machine) MoveResize(pointerY float64) (Preview, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := m.gesture
	if g == nil {
		return Preview{}, false, calerrors.ErrNoGesture
	}
	if g.kind != KindResizeStart && g.kind != KindResizeEnd {
		return Preview{}, false, calerrors.ErrGestureMismatch
	}

	delta := int(math.Round((pointerY - g.initialY) / g.pxPerStep))
	if delta == g.lastDelta {
		return m.resizePreview(g), false, nil
	}
	g.lastDelta = delta

	step := float64(m.params.GridInterval)
	switch g.kind {
	case KindResizeStart:
		candidate := g.origStart + float64(delta)*step
		g.curStart = clamp(int(candidate), m.params.DayStartMin, int(g.origEnd)-m.minDur)
	case KindResizeEnd:
		candidate := g.origEnd + float64(delta)*step
		g.curEnd = clamp(int(candidate), int(g.origStart)+m.minDur, m.params.DayEndMin)
	}

	return m.resizePreview(g), true, nil
}

// ReleaseResize ends the resize. An unmoved edge is a no-op; a duration
// below the minimum is discarded silently since the clamps should have
// prevented it. The machine is reset whatever the outcome.
func (m *Machine) ReleaseResize() (*Commit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := m.gesture
	if g == nil {
		return nil, calerrors.ErrNoGesture
	}
	if g.kind != KindResizeStart && g.kind != KindResizeEnd {
		return nil, calerrors.ErrGestureMismatch
	}
	defer func() { m.gesture = nil }()

	if g.curStart == int(g.origStart) && g.curEnd == int(g.origEnd) {
		return nil, nil
	}

	duration := g.curEnd - g.curStart
	if duration < m.minDur {
		return nil, nil
	}

	b := g.booking
	check := conflict.FromBooking(&b, b.Date, b.StaffID, g.curStart, duration)
	if hit := m.conflict(check); hit != nil {
		return nil, calerrors.ErrTimeConflict
	}

	return &Commit{
		Booking: b,
		Change: model.ScheduleChange{
			Date:     b.Date,
			Time:     timegrid.FromMinutes(g.curStart),
			Duration: duration,
			StaffID:  b.StaffID,
		},
	}, nil
}

func (m *Machine) resizePreview(g *active) Preview {
	return Preview{
		BookingID: g.booking.ID,
		Kind:      g.kind,
		StaffID:   g.booking.StaffID,
		Date:      g.booking.Date,
		StartMin:  g.curStart,
		EndMin:    g.curEnd,
	}
}

func (m *Machine) clampStart(startMin, duration int) int {
	return clamp(startMin, m.params.DayStartMin, m.params.DayEndMin-duration)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
