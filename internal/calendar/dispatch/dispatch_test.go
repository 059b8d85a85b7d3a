package dispatch

import (
	"errors"
	"sync"
	"testing"
	"time"

	calerrors "calview/internal/calendar/errors"
	"calview/internal/calendar/store"
	"calview/internal/calendar/view"
	"calview/pkg/clock"
	"calview/pkg/model"
)

func newDispatcher(t *testing.T) (*Dispatcher, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	s := store.New(clk, store.Windows{
		Deleted:   30 * time.Second,
		Status:    60 * time.Second,
		StaffPref: 120 * time.Second,
		LocalOnly: 60 * time.Second,
	})
	return New(s, view.State{Mode: view.ModeDay, Anchor: "2024-06-01"}), clk
}

func serverBooking(id string) model.Booking {
	return model.Booking{
		ID:       id,
		Date:     "2024-06-01",
		Time:     "10:00",
		Duration: 30,
		Status:   model.StatusConfirmed,
		StaffID:  "staff-1",
	}
}

func TestDispatchViewActions(t *testing.T) {
	d, _ := newDispatcher(t)

	snap, err := d.Dispatch(Action{
		Type: ActionSetView,
		View: &view.State{Mode: view.ModeWeek, Anchor: "2024-06-01"},
	})
	if err != nil {
		t.Fatalf("set-view: %v", err)
	}
	if snap.View.Mode != view.ModeWeek {
		t.Errorf("got mode %s, want week", snap.View.Mode)
	}

	snap, err = d.Dispatch(Action{Type: ActionNavigate, Direction: 1})
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if snap.View.Anchor != "2024-06-08" {
		t.Errorf("got anchor %s, want 2024-06-08", snap.View.Anchor)
	}

	if _, err := d.Dispatch(Action{Type: ActionNavigate, Direction: 3}); err == nil {
		t.Error("expected error for invalid direction")
	}
	if _, err := d.Dispatch(Action{
		Type: ActionSetView,
		View: &view.State{Mode: "quarter", Anchor: "2024-06-01"},
	}); err == nil {
		t.Error("expected error for invalid view mode")
	}
}

func TestDispatchDataActions(t *testing.T) {
	d, _ := newDispatcher(t)

	snap, err := d.Dispatch(Action{Type: ActionSetBookings, Bookings: []model.Booking{serverBooking("b1")}})
	if err != nil {
		t.Fatalf("set-bookings: %v", err)
	}
	if len(snap.Bookings) != 1 {
		t.Fatalf("got %d bookings, want 1", len(snap.Bookings))
	}

	status := model.StatusCompleted
	snap, err = d.Dispatch(Action{Type: ActionUpdateBooking, BookingID: "b1", Patch: &model.BookingPatch{Status: &status}})
	if err != nil {
		t.Fatalf("update-booking: %v", err)
	}
	if snap.Bookings[0].Status != model.StatusCompleted {
		t.Errorf("got status %s, want completed", snap.Bookings[0].Status)
	}

	if _, err := d.Dispatch(Action{Type: ActionUpdateBooking, BookingID: "missing", Patch: &model.BookingPatch{Status: &status}}); !errors.Is(err, calerrors.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	snap, err = d.Dispatch(Action{Type: ActionRemoveBooking, BookingID: "b1"})
	if err != nil {
		t.Fatalf("remove-booking: %v", err)
	}
	if len(snap.Bookings) != 0 {
		t.Errorf("got %d bookings after remove, want 0", len(snap.Bookings))
	}
}

func TestDeleteThenStaleRefreshOrdering(t *testing.T) {
	d, _ := newDispatcher(t)
	if _, err := d.Dispatch(Action{Type: ActionSetBookings, Bookings: []model.Booking{serverBooking("b1")}}); err != nil {
		t.Fatal(err)
	}

	// A delete applied before a refresh that was already in flight must
	// win: the buffered delete suppresses the stale record.
	if _, err := d.Dispatch(Action{Type: ActionRemoveBooking, BookingID: "b1"}); err != nil {
		t.Fatal(err)
	}
	snap, err := d.Dispatch(Action{Type: ActionSetBookings, Bookings: []model.Booking{serverBooking("b1")}})
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Bookings) != 0 {
		t.Errorf("stale refresh resurrected a deleted booking: %v", snap.Bookings)
	}
}

func TestDispatchSerializesConcurrentActions(t *testing.T) {
	d, _ := newDispatcher(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(Action{Type: ActionSetBookings, Bookings: []model.Booking{serverBooking("b1")}})
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(Action{Type: ActionNavigate, Direction: 1})
		}()
	}
	wg.Wait()

	snap := d.Snapshot()
	if len(snap.Bookings) != 1 {
		t.Errorf("got %d bookings, want 1", len(snap.Bookings))
	}
	// 50 day steps forward from 2024-06-01.
	if snap.View.Anchor != "2024-07-21" {
		t.Errorf("got anchor %s, want 2024-07-21", snap.View.Anchor)
	}
}

func TestDispatchUnknownAction(t *testing.T) {
	d, _ := newDispatcher(t)
	if _, err := d.Dispatch(Action{Type: "explode"}); err == nil {
		t.Error("expected error for unknown action type")
	}
}
