package store

import (
	"sync"
	"time"

	"calview/pkg/clock"
	"calview/pkg/model"

	"github.com/google/uuid"
)

// Windows holds the grace periods for the three reconciliation buffers and
// the retention deadline for locally created bookings awaiting server
// confirmation. Within a window the most recent client intent wins over
// refresh data; once it lapses, server truth wins again.
type Windows struct {
	Deleted   time.Duration
	Status    time.Duration
	StaffPref time.Duration
	LocalOnly time.Duration
}

type statusEntry struct {
	status model.BookingStatus
	at     time.Time
}

type staffPrefEntry struct {
	staffID   string
	requested *bool
	at        time.Time
}

// Store is the authoritative in-memory booking collection for the calendar,
// reconciling polled server refreshes against recent local mutations.
//
// Refreshes race user actions: a cancellation issued one second before a
// refresh lands would flicker back if the stale response were trusted
// blindly. Each mutation therefore records its intent in a time-windowed
// buffer, and every merge re-applies the unexpired buffers on top of the
// incoming data. No buffer outlives its window, so a buffering bug can
// never suppress server state permanently.
type Store struct {
	mu  sync.Mutex
	clk clock.Clock
	win Windows

	bookings   []model.Booking
	deleted    map[string]time.Time
	statuses   map[string]statusEntry
	staffPrefs map[string]staffPrefEntry
}

func New(clk clock.Clock, win Windows) *Store {
	return &Store{
		clk:        clk,
		win:        win,
		deleted:    make(map[string]time.Time),
		statuses:   make(map[string]statusEntry),
		staffPrefs: make(map[string]staffPrefEntry),
	}
}

// Snapshot returns a copy of the current booking collection.
func (s *Store) Snapshot() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// Get returns a copy of the booking with the given id.
func (s *Store) Get(id string) (model.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bookings {
		if s.bookings[i].ID == id {
			return s.bookings[i], true
		}
	}
	return model.Booking{}, false
}

// Add inserts an optimistic, locally created booking. It is flagged
// local-only until a refresh confirms the id, and is dropped from future
// merges once its retention deadline passes without confirmation.
func (s *Store) Add(b model.Booking) model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.IsLocalOnly = true
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.LocalOnlyExpiresAt.IsZero() {
		b.LocalOnlyExpiresAt = b.CreatedAt.Add(s.win.LocalOnly)
	}
	b.UpdatedAt = now

	s.bookings = append(s.bookings, b)
	return b
}

// Update applies a partial patch to an existing booking. Touching the
// status records a status-buffer entry; touching the staff assignment or
// the customer-requested flag records a staff-preference entry. The buffers
// keep the patched values alive through refreshes that were already in
// flight when the user acted.
func (s *Store) Update(id string, patch model.BookingPatch) (model.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return model.Booking{}, false
	}

	now := s.clk.Now()
	b := &s.bookings[idx]

	if patch.Date != nil {
		b.Date = *patch.Date
	}
	if patch.Time != nil {
		b.Time = *patch.Time
	}
	if patch.Duration != nil {
		b.Duration = *patch.Duration
	}
	if patch.Status != nil {
		b.Status = *patch.Status
		s.statuses[id] = statusEntry{status: *patch.Status, at: now}
	}
	if patch.StaffID != nil || patch.CustomerRequestedStaff != nil {
		entry := staffPrefEntry{staffID: b.StaffID, at: now}
		if prev, ok := s.staffPrefs[id]; ok {
			entry.requested = prev.requested
		}
		if patch.StaffID != nil {
			b.StaffID = *patch.StaffID
			entry.staffID = *patch.StaffID
		}
		if patch.CustomerRequestedStaff != nil {
			b.CustomerRequestedStaff = *patch.CustomerRequestedStaff
			entry.requested = patch.CustomerRequestedStaff
		}
		s.staffPrefs[id] = entry
	}
	b.UpdatedAt = now

	return *b, true
}

// Remove deletes a booking locally and buffers the deletion so a stale
// refresh cannot resurrect it within the grace window.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted[id] = s.clk.Now()

	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return true
		}
	}
	return false
}

// Merge reconciles a refresh payload with the current collection and
// returns the new authoritative snapshot. The whole merge runs atomically
// against one store state; a mutation can land before or after a merge but
// never in the middle of one.
func (s *Store) Merge(incoming []model.Booking) []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	s.pruneBuffers(now)

	// Server-confirmed records are authoritative regardless of any local
	// flag they previously carried.
	merged := make([]model.Booking, 0, len(s.bookings)+len(incoming))
	incomingIDs := make(map[string]struct{}, len(incoming))
	for _, b := range incoming {
		b.IsLocalOnly = false
		incomingIDs[b.ID] = struct{}{}
		merged = append(merged, b)
	}

	// Keep unconfirmed local creations until their retention deadline, so
	// an optimistic booking survives refreshes generated before the server
	// saw it. Everything else from the previous set yields to the refresh.
	for _, b := range s.bookings {
		if !b.IsLocalOnly {
			continue
		}
		if _, confirmed := incomingIDs[b.ID]; confirmed {
			continue
		}
		expiry := b.LocalOnlyExpiresAt
		if expiry.IsZero() {
			expiry = b.CreatedAt.Add(s.win.LocalOnly)
		}
		if now.Before(expiry) {
			merged = append(merged, b)
		}
	}

	result := merged[:0]
	for _, b := range merged {
		if _, gone := s.deleted[b.ID]; gone {
			continue
		}
		if entry, ok := s.statuses[b.ID]; ok {
			b.Status = entry.status
		}
		if entry, ok := s.staffPrefs[b.ID]; ok {
			b.StaffID = entry.staffID
			if entry.requested != nil {
				b.CustomerRequestedStaff = *entry.requested
			}
		}
		result = append(result, b)
	}

	s.bookings = make([]model.Booking, len(result))
	copy(s.bookings, result)

	out := make([]model.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// BufferSizes reports the live entry counts of the three buffers, after
// pruning. Exposed for observability.
func (s *Store) BufferSizes() (deleted, statuses, staffPrefs int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneBuffers(s.clk.Now())
	return len(s.deleted), len(s.statuses), len(s.staffPrefs)
}

func (s *Store) pruneBuffers(now time.Time) {
	for id, at := range s.deleted {
		if now.Sub(at) > s.win.Deleted {
			delete(s.deleted, id)
		}
	}
	for id, entry := range s.statuses {
		if now.Sub(entry.at) > s.win.Status {
			delete(s.statuses, id)
		}
	}
	for id, entry := range s.staffPrefs {
		if now.Sub(entry.at) > s.win.StaffPref {
			delete(s.staffPrefs, id)
		}
	}
}
