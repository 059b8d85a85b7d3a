package validator

import (
	"testing"

	"calview/pkg/logger"
	"calview/pkg/model"
)

func newValidator(t *testing.T) *BookingValidator {
	t.Helper()
	return NewBookingValidator(logger.Discard())
}

func validBooking() model.Booking {
	return model.Booking{
		ID:       "b1",
		Date:     "2024-06-01",
		Time:     "10:00",
		Duration: 30,
		Status:   model.StatusConfirmed,
		StaffID:  "staff-1",
	}
}

func TestValidateBooking(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		mutate  func(*model.Booking)
		wantErr bool
	}{
		{"valid booking", func(b *model.Booking) {}, false},
		{"unassigned staff is allowed", func(b *model.Booking) { b.StaffID = "" }, false},
		{"missing id", func(b *model.Booking) { b.ID = "" }, true},
		{"malformed date", func(b *model.Booking) { b.Date = "01/06/2024" }, true},
		{"impossible date", func(b *model.Booking) { b.Date = "2024-13-01" }, true},
		{"malformed time", func(b *model.Booking) { b.Time = "25:00" }, true},
		{"zero duration", func(b *model.Booking) { b.Duration = 0 }, true},
		{"unknown status", func(b *model.Booking) { b.Status = "teleported" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(&b)
			err := v.Validate(&b)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePatch(t *testing.T) {
	v := newValidator(t)

	// Empty patch is valid: every field is optional.
	if err := v.ValidatePatch(&model.BookingPatch{}); err != nil {
		t.Errorf("empty patch: %v", err)
	}

	badTime := "9am"
	if err := v.ValidatePatch(&model.BookingPatch{Time: &badTime}); err == nil {
		t.Error("expected error for malformed time in patch")
	}

	status := model.StatusCompleted
	if err := v.ValidatePatch(&model.BookingPatch{Status: &status}); err != nil {
		t.Errorf("valid status patch: %v", err)
	}
}

func TestValidateScheduleChange(t *testing.T) {
	v := newValidator(t)

	ok := model.ScheduleChange{Date: "2024-06-01", Time: "11:00", Duration: 30, StaffID: "staff-1"}
	if err := v.ValidateScheduleChange(&ok); err != nil {
		t.Errorf("valid change: %v", err)
	}

	bad := ok
	bad.Duration = 0
	if err := v.ValidateScheduleChange(&bad); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestValidateDateRange(t *testing.T) {
	v := newValidator(t)

	if err := v.ValidateDateRange(&model.DateRange{Start: "2024-06-01", End: "2024-06-07"}); err != nil {
		t.Errorf("valid range: %v", err)
	}
	if err := v.ValidateDateRange(&model.DateRange{Start: "2024-06-07", End: "2024-06-01"}); err == nil {
		t.Error("expected error for inverted range")
	}
	if err := v.ValidateDateRange(&model.DateRange{Start: "junk", End: "2024-06-01"}); err == nil {
		t.Error("expected error for malformed start date")
	}
}

func TestFilterValidDropsPerRecord(t *testing.T) {
	v := newValidator(t)

	good := validBooking()
	bad := validBooking()
	bad.ID = "b2"
	bad.Time = "not-a-time"
	alsoGood := validBooking()
	alsoGood.ID = "b3"

	valid, dropped := v.FilterValid([]model.Booking{good, bad, alsoGood})

	if len(valid) != 2 {
		t.Fatalf("got %d valid bookings, want 2", len(valid))
	}
	if valid[0].ID != "b1" || valid[1].ID != "b3" {
		t.Errorf("got %s,%s, want b1,b3", valid[0].ID, valid[1].ID)
	}
	if len(dropped) != 1 || dropped[0] != "b2" {
		t.Errorf("got dropped %v, want [b2]", dropped)
	}
}
