package dispatch

import (
	"fmt"
	"sync"

	calerrors "calview/internal/calendar/errors"
	"calview/internal/calendar/store"
	"calview/internal/calendar/view"
	"calview/pkg/model"
)

// ActionType tags a calendar action.
type ActionType string

const (
	ActionSetView       ActionType = "set-view"
	ActionNavigate      ActionType = "navigate"
	ActionSetFilter     ActionType = "set-filter"
	ActionSetBookings   ActionType = "set-bookings"
	ActionAddBooking    ActionType = "add-booking"
	ActionUpdateBooking ActionType = "update-booking"
	ActionRemoveBooking ActionType = "remove-booking"
)

// Action is one calendar state transition. Exactly the fields relevant to
// its Type are read; the rest are ignored.
type Action struct {
	Type ActionType

	View      *view.State
	Direction int
	Filter    *view.Filter

	Bookings  []model.Booking
	Booking   *model.Booking
	BookingID string
	Patch     *model.BookingPatch
}

// Snapshot is the calendar state after an action was applied.
type Snapshot struct {
	View     view.State      `json:"view"`
	Filter   view.Filter     `json:"filter"`
	Bookings []model.Booking `json:"bookings"`
}

// Dispatcher is the single gate through which every calendar state
// transition flows. Actions are applied strictly in arrival order, one at a
// time; a delete followed by a stale refresh depends on that ordering for
// the reconciliation buffers to behave.
type Dispatcher struct {
	mu     sync.Mutex
	store  *store.Store
	view   view.State
	filter view.Filter
}

func New(s *store.Store, initial view.State) *Dispatcher {
	return &Dispatcher{store: s, view: initial}
}

// Dispatch applies one action and returns the resulting state. The action
// is fully applied before the next Dispatch call begins.
func (d *Dispatcher) Dispatch(a Action) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch a.Type {
	case ActionSetView:
		if a.View == nil {
			return Snapshot{}, fmt.Errorf("set-view action missing view state")
		}
		if _, err := a.View.Range(); err != nil {
			return Snapshot{}, err
		}
		d.view = *a.View

	case ActionNavigate:
		if a.Direction != 1 && a.Direction != -1 {
			return Snapshot{}, fmt.Errorf("navigate direction must be -1 or 1, got %d", a.Direction)
		}
		next, err := d.view.Navigate(a.Direction)
		if err != nil {
			return Snapshot{}, err
		}
		d.view = next

	case ActionSetFilter:
		if a.Filter == nil {
			return Snapshot{}, fmt.Errorf("set-filter action missing filter")
		}
		d.filter = *a.Filter

	case ActionSetBookings:
		d.store.Merge(a.Bookings)

	case ActionAddBooking:
		if a.Booking == nil {
			return Snapshot{}, fmt.Errorf("add-booking action missing booking")
		}
		d.store.Add(*a.Booking)

	case ActionUpdateBooking:
		if a.Patch == nil {
			return Snapshot{}, fmt.Errorf("update-booking action missing patch")
		}
		if _, ok := d.store.Update(a.BookingID, *a.Patch); !ok {
			return Snapshot{}, calerrors.ErrNotFound
		}

	case ActionRemoveBooking:
		d.store.Remove(a.BookingID)

	default:
		return Snapshot{}, fmt.Errorf("unknown action type %q", a.Type)
	}

	return d.snapshotLocked(), nil
}

// Snapshot returns the current state without applying an action.
func (d *Dispatcher) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dispatcher) snapshotLocked() Snapshot {
	return Snapshot{
		View:     d.view,
		Filter:   d.filter,
		Bookings: d.store.Snapshot(),
	}
}
