package service

import (
	"context"
	"errors"
	"sync"

	"calview/internal/calendar/conflict"
	"calview/internal/calendar/dispatch"
	calerrors "calview/internal/calendar/errors"
	"calview/internal/calendar/gesture"
	"calview/internal/calendar/layout"
	"calview/internal/calendar/validator"
	"calview/internal/calendar/view"
	"calview/pkg/client"
	"calview/pkg/config"
	apperrors "calview/pkg/errors"
	"calview/pkg/kafka"
	"calview/pkg/model"
	"calview/pkg/timegrid"
)

const eventSource = "calendar"

const (
	EventScheduleChanged = "booking.schedule-changed"
	EventStatusChanged   = "booking.status-changed"
	EventDeleted         = "booking.deleted"
	EventCreated         = "booking.created-optimistic"
)

// EventPublisher broadcasts calendar mutations to the rest of the system.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// CalendarView is the derived state handed to the rendering layer: the
// filtered bookings of the visible window plus per-day, per-staff layout
// geometry.
type CalendarView struct {
	View     view.State                               `json:"view"`
	Filter   view.Filter                              `json:"filter"`
	Range    model.DateRange                          `json:"range"`
	Bookings []model.Booking                          `json:"bookings"`
	Layout   map[string]map[string][]layout.Placement `json:"layout"`
}

type CalendarService interface {
	Refresh(ctx context.Context) (dispatch.Snapshot, error)
	View(ctx context.Context) (*CalendarView, error)
	SetView(mode, anchor string) (dispatch.Snapshot, error)
	Navigate(direction int) (dispatch.Snapshot, error)
	SetFilter(f view.Filter) dispatch.Snapshot

	CreateOptimistic(ctx context.Context, b *model.Booking) (model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
	Delete(ctx context.Context, id string) error

	SetRoster(staff []model.Staff)

	StartDrag(id string) error
	HoverDrag(target gesture.DropTarget) (gesture.Preview, error)
	ReleaseDrag(ctx context.Context, target *gesture.DropTarget) (*model.Booking, error)
	StartResize(id string, edge gesture.Kind, pointerY, pixelsPerInterval float64) error
	MoveResize(pointerY float64) (gesture.Preview, bool, error)
	ReleaseResize(ctx context.Context) (*model.Booking, error)
	CancelGesture()
}

type calendarService struct {
	dispatcher *dispatch.Dispatcher
	machine    *gesture.Machine
	api        client.BookingAPI
	validator  *validator.BookingValidator
	publisher  EventPublisher
	cfg        *config.Config

	rosterMu sync.RWMutex
	roster   map[string]model.Staff
}

func NewCalendarService(
	dispatcher *dispatch.Dispatcher,
	machine *gesture.Machine,
	api client.BookingAPI,
	v *validator.BookingValidator,
	publisher EventPublisher,
	cfg *config.Config,
) CalendarService {
	return &calendarService{
		dispatcher: dispatcher,
		machine:    machine,
		api:        api,
		validator:  v,
		publisher:  publisher,
		cfg:        cfg,
	}
}

// Refresh fetches the visible window from the booking API and merges it
// into the store. Malformed records are dropped individually; one bad
// booking never aborts the batch.
func (s *calendarService) Refresh(ctx context.Context) (dispatch.Snapshot, error) {
	snap := s.dispatcher.Snapshot()
	dateRange, err := snap.View.Range()
	if err != nil {
		return dispatch.Snapshot{}, apperrors.Internal("Failed to resolve visible date range", err)
	}

	incoming, err := s.api.ListBookings(ctx, dateRange)
	if err != nil {
		s.cfg.Log.Error("Refresh fetch failed", "error", err, "range_start", dateRange.Start, "range_end", dateRange.End)
		return dispatch.Snapshot{}, apperrors.Unavailable("Booking API")
	}

	valid, dropped := s.validator.FilterValid(incoming)
	if len(dropped) > 0 {
		s.cfg.Log.Warn("Refresh batch contained malformed bookings", "dropped", dropped)
	}

	snap, err = s.dispatcher.Dispatch(dispatch.Action{Type: dispatch.ActionSetBookings, Bookings: valid})
	if err != nil {
		return dispatch.Snapshot{}, apperrors.Internal("Failed to merge refresh batch", err)
	}

	s.cfg.Log.Info("Refresh merged",
		"fetched", len(incoming),
		"dropped", len(dropped),
		"merged", len(snap.Bookings),
	)
	return snap, nil
}

// View derives the render model for the current viewport: filtered
// bookings plus overlap layout per date and staff column.
func (s *calendarService) View(ctx context.Context) (*CalendarView, error) {
	snap := s.dispatcher.Snapshot()
	dateRange, err := snap.View.Range()
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve visible date range", err)
	}

	visible := view.Apply(snap.Bookings, dateRange, snap.Filter)

	byDate := make(map[string][]model.Booking)
	for _, b := range visible {
		byDate[b.Date] = append(byDate[b.Date], b)
	}
	layoutByDate := make(map[string]map[string][]layout.Placement, len(byDate))
	for date, group := range byDate {
		layoutByDate[date] = layout.AssignByStaff(group)
	}

	return &CalendarView{
		View:     snap.View,
		Filter:   snap.Filter,
		Range:    dateRange,
		Bookings: visible,
		Layout:   layoutByDate,
	}, nil
}

func (s *calendarService) SetView(mode, anchor string) (dispatch.Snapshot, error) {
	parsed, err := view.ParseMode(mode)
	if err != nil {
		return dispatch.Snapshot{}, apperrors.InvalidInput("View mode must be one of day, week, month")
	}
	if !model.DatePattern.MatchString(anchor) {
		return dispatch.Snapshot{}, apperrors.InvalidInput("Anchor must be a date in YYYY-MM-DD format")
	}

	snap, err := s.dispatcher.Dispatch(dispatch.Action{
		Type: dispatch.ActionSetView,
		View: &view.State{Mode: parsed, Anchor: anchor},
	})
	if err != nil {
		return dispatch.Snapshot{}, apperrors.InvalidInput(err.Error())
	}
	return snap, nil
}

func (s *calendarService) Navigate(direction int) (dispatch.Snapshot, error) {
	snap, err := s.dispatcher.Dispatch(dispatch.Action{Type: dispatch.ActionNavigate, Direction: direction})
	if err != nil {
		return dispatch.Snapshot{}, apperrors.InvalidInput(err.Error())
	}
	return snap, nil
}

func (s *calendarService) SetFilter(f view.Filter) dispatch.Snapshot {
	snap, _ := s.dispatcher.Dispatch(dispatch.Action{Type: dispatch.ActionSetFilter, Filter: &f})
	return snap
}

// CreateOptimistic inserts a locally created booking ahead of server
// confirmation. The booking carries a retention deadline; if no refresh
// confirms its id before the deadline, the next merge drops it.
func (s *calendarService) CreateOptimistic(ctx context.Context, b *model.Booking) (model.Booking, error) {
	if b.Status == "" {
		b.Status = model.StatusOptimistic
	}
	candidate := *b
	if candidate.ID == "" {
		candidate.ID = "pending"
	}
	if err := s.validator.Validate(&candidate); err != nil {
		return model.Booking{}, apperrors.Validation("Booking failed validation", map[string]any{"errors": err.Error()})
	}

	check := conflict.Check{
		BookingID: b.ID,
		Date:      b.Date,
		StaffID:   b.StaffID,
		StartMin:  b.StartMinutes(),
		Duration:  b.Duration,
	}
	if hit := conflict.Detect(check, s.dispatcher.Snapshot().Bookings); hit != nil {
		return model.Booking{}, s.conflictError(hit)
	}
	if !s.rostered(b.StaffID, b.Date, b.StartMinutes(), b.EndMinutes()) {
		return model.Booking{}, apperrors.Validation("Staff member is not rostered for the requested slot", map[string]any{
			"staff_id": b.StaffID,
			"date":     b.Date,
			"time":     b.Time,
		})
	}

	snap, err := s.dispatcher.Dispatch(dispatch.Action{Type: dispatch.ActionAddBooking, Booking: b})
	if err != nil {
		return model.Booking{}, apperrors.Internal("Failed to add booking", err)
	}
	added := snap.Bookings[len(snap.Bookings)-1]

	s.publish(ctx, EventCreated, added.ID, added)
	s.cfg.Log.Info("Optimistic booking added", "id", added.ID, "date", added.Date, "time", added.Time)
	return added, nil
}

// UpdateStatus applies a status change locally, buffered against stale
// refreshes, then propagates it to the booking API. A failed API call does
// not roll the local change back; the next refresh past the buffer window
// reconciles it.
func (s *calendarService) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if !status.Valid() {
		return apperrors.InvalidInput("Unknown booking status")
	}

	patch := model.BookingPatch{Status: &status}
	if _, err := s.dispatcher.Dispatch(dispatch.Action{
		Type:      dispatch.ActionUpdateBooking,
		BookingID: id,
		Patch:     &patch,
	}); err != nil {
		if errors.Is(err, calerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to update booking", err)
	}

	if err := s.api.UpdateBookingStatus(ctx, id, status); err != nil {
		s.cfg.Log.Error("Status change not accepted by booking API, local state kept",
			"id", id, "status", status, "error", err)
		return apperrors.Unavailable("Booking API")
	}

	s.publish(ctx, EventStatusChanged, id, map[string]any{"id": id, "status": status})
	s.cfg.Log.Info("Booking status updated", "id", id, "status", status)
	return nil
}

// Delete removes a booking locally, buffered so an in-flight refresh
// cannot resurrect it, then propagates the deletion.
func (s *calendarService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if _, err := s.dispatcher.Dispatch(dispatch.Action{Type: dispatch.ActionRemoveBooking, BookingID: id}); err != nil {
		return apperrors.Internal("Failed to remove booking", err)
	}

	if err := s.api.DeleteBooking(ctx, id); err != nil {
		s.cfg.Log.Error("Deletion not accepted by booking API, local state kept", "id", id, "error", err)
		return apperrors.Unavailable("Booking API")
	}

	s.publish(ctx, EventDeleted, id, map[string]any{"id": id})
	s.cfg.Log.Info("Booking deleted", "id", id)
	return nil
}

// SetRoster installs the staff schedules used to vet slot placement. A
// staff member absent from the roster, or present with no schedule data, is
// treated as always available.
func (s *calendarService) SetRoster(staff []model.Staff) {
	s.rosterMu.Lock()
	defer s.rosterMu.Unlock()

	s.roster = make(map[string]model.Staff, len(staff))
	for _, m := range staff {
		s.roster[m.ID] = m
	}
}

func (s *calendarService) rostered(staffID, date string, startMin, endMin int) bool {
	if staffID == "" {
		return true
	}

	s.rosterMu.RLock()
	defer s.rosterMu.RUnlock()

	m, ok := s.roster[staffID]
	if !ok {
		return true
	}
	return m.RosteredAt(date, startMin, endMin)
}

func (s *calendarService) StartDrag(id string) error {
	b, ok := s.lookup(id)
	if !ok {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if err := s.machine.StartDrag(b); err != nil {
		return s.gestureError(err)
	}
	return nil
}

func (s *calendarService) HoverDrag(target gesture.DropTarget) (gesture.Preview, error) {
	preview, err := s.machine.HoverDrag(target)
	if err != nil {
		return gesture.Preview{}, s.gestureError(err)
	}
	return preview, nil
}

func (s *calendarService) ReleaseDrag(ctx context.Context, target *gesture.DropTarget) (*model.Booking, error) {
	commit, err := s.machine.ReleaseDrag(target)
	if err != nil {
		return nil, s.gestureError(err)
	}
	if commit == nil {
		return nil, nil
	}
	return s.applyCommit(ctx, commit)
}

func (s *calendarService) StartResize(id string, edge gesture.Kind, pointerY, pixelsPerInterval float64) error {
	b, ok := s.lookup(id)
	if !ok {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if err := s.machine.StartResize(b, edge, pointerY, pixelsPerInterval); err != nil {
		return s.gestureError(err)
	}
	return nil
}

func (s *calendarService) MoveResize(pointerY float64) (gesture.Preview, bool, error) {
	preview, changed, err := s.machine.MoveResize(pointerY)
	if err != nil {
		return gesture.Preview{}, false, s.gestureError(err)
	}
	return preview, changed, nil
}

func (s *calendarService) ReleaseResize(ctx context.Context) (*model.Booking, error) {
	commit, err := s.machine.ReleaseResize()
	if err != nil {
		return nil, s.gestureError(err)
	}
	if commit == nil {
		return nil, nil
	}
	return s.applyCommit(ctx, commit)
}

func (s *calendarService) CancelGesture() {
	s.machine.Cancel()
}

// applyCommit is the shared landing path for drag and resize: optimistic
// store update first, then the API mutation. The local update survives an
// API failure; reconciliation trues it up on a later refresh.
func (s *calendarService) applyCommit(ctx context.Context, commit *gesture.Commit) (*model.Booking, error) {
	change := commit.Change

	startMin := timegrid.ToMinutes(change.Time)
	if !s.rostered(change.StaffID, change.Date, startMin, startMin+change.Duration) {
		return nil, apperrors.Validation("Staff member is not rostered for the target slot", map[string]any{
			"staff_id": change.StaffID,
			"date":     change.Date,
			"time":     change.Time,
		})
	}

	patch := model.BookingPatch{
		Date:     &change.Date,
		Time:     &change.Time,
		Duration: &change.Duration,
		StaffID:  &change.StaffID,
	}

	snap, err := s.dispatcher.Dispatch(dispatch.Action{
		Type:      dispatch.ActionUpdateBooking,
		BookingID: commit.Booking.ID,
		Patch:     &patch,
	})
	if err != nil {
		if errors.Is(err, calerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", commit.Booking.ID)
		}
		return nil, apperrors.Internal("Failed to apply schedule change", err)
	}

	updated, err := s.api.UpdateBookingSchedule(ctx, commit.Booking.ID, change)
	if err != nil {
		s.cfg.Log.Error("Schedule change not accepted by booking API, local state kept",
			"id", commit.Booking.ID, "error", err)
		return nil, apperrors.Unavailable("Booking API")
	}
	if updated == nil {
		for i := range snap.Bookings {
			if snap.Bookings[i].ID == commit.Booking.ID {
				updated = &snap.Bookings[i]
				break
			}
		}
	}

	s.publish(ctx, EventScheduleChanged, commit.Booking.ID, change)
	s.cfg.Log.Info("Schedule change committed",
		"id", commit.Booking.ID,
		"date", change.Date,
		"time", change.Time,
		"duration", change.Duration,
		"staff_id", change.StaffID,
	)
	return updated, nil
}

func (s *calendarService) lookup(id string) (model.Booking, bool) {
	for _, b := range s.dispatcher.Snapshot().Bookings {
		if b.ID == id {
			return b, true
		}
	}
	return model.Booking{}, false
}

func (s *calendarService) conflictError(hit *model.Booking) *apperrors.AppError {
	return apperrors.Conflict("Target slot conflicts with an existing booking").WithDetails(map[string]any{
		"conflicting_id": hit.ID,
		"date":           hit.Date,
		"time":           hit.Time,
		"duration":       hit.Duration,
	})
}

func (s *calendarService) gestureError(err error) error {
	switch {
	case errors.Is(err, calerrors.ErrTimeConflict):
		return apperrors.Conflict("Target slot conflicts with an existing booking")
	case errors.Is(err, calerrors.ErrGestureActive):
		return apperrors.Conflict("Another gesture is already in progress")
	case errors.Is(err, calerrors.ErrNoGesture), errors.Is(err, calerrors.ErrGestureMismatch), errors.Is(err, calerrors.ErrInvalidResize):
		return apperrors.InvalidInput(err.Error())
	default:
		return apperrors.Internal("Gesture handling failed", err)
	}
}

func (s *calendarService) publish(ctx context.Context, eventType, key string, value any) {
	if s.publisher == nil {
		return
	}
	msg, err := kafka.NewMessage(key, eventType, eventSource, value)
	if err != nil {
		s.cfg.Log.Warn("Failed to build event message", "event_type", eventType, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish event", "event_type", eventType, "key", key, "error", err)
	}
}
