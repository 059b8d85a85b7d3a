package model

import "time"

// CalendarPreferences is a user's persisted calendar UI state: the view
// they reopen into and the filters they left active. Stored outside the
// reconciliation store; losing them never loses booking data.
type CalendarPreferences struct {
	UserID            string          `json:"user_id" bson:"_id" validate:"required"`
	DefaultMode       string          `json:"default_mode" bson:"default_mode" validate:"omitempty,oneof=day week month"`
	GridInterval      int             `json:"grid_interval" bson:"grid_interval" validate:"omitempty,min=5,max=60"`
	StaffIDs          []string        `json:"staff_ids,omitempty" bson:"staff_ids,omitempty"`
	IncludeUnassigned bool            `json:"include_unassigned" bson:"include_unassigned"`
	Statuses          []BookingStatus `json:"statuses,omitempty" bson:"statuses,omitempty" validate:"dive,booking_status"`
	UpdatedAt         time.Time       `json:"updated_at" bson:"updated_at"`
}
