package validator

import (
	"errors"
	"fmt"
	"strings"

	"calview/pkg/logger"
	"calview/pkg/model"
	"calview/pkg/timegrid"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// BookingValidator validates bookings and the payloads of the calendar's
// mutation endpoints.
type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}
	if err := v.RegisterValidation("calendar_time", validateCalendarTime); err != nil {
		log.Fatal("Failed to register 'calendar_time' validator", "error", err)
	}
	if err := v.RegisterValidation("booking_status", validateBookingStatus); err != nil {
		log.Fatal("Failed to register 'booking_status' validator", "error", err)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	return model.DatePattern.MatchString(fl.Field().String())
}

func validateCalendarTime(fl validator.FieldLevel) bool {
	return timegrid.Pattern.MatchString(fl.Field().String())
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return model.BookingStatus(fl.Field().String()).Valid()
}

// Validate checks a single booking.
func (v *BookingValidator) Validate(b *model.Booking) error {
	return v.check(b)
}

// ValidatePatch checks a partial booking update.
func (v *BookingValidator) ValidatePatch(p *model.BookingPatch) error {
	return v.check(p)
}

// ValidateScheduleChange checks a drag or resize commit payload.
func (v *BookingValidator) ValidateScheduleChange(c *model.ScheduleChange) error {
	return v.check(c)
}

// ValidateDateRange checks a refresh window.
func (v *BookingValidator) ValidateDateRange(r *model.DateRange) error {
	if err := v.check(r); err != nil {
		return err
	}
	if r.End < r.Start {
		return ValidationErrors{{Field: "End", Message: "end date must not precede start date"}}
	}
	return nil
}

// FilterValid splits a refresh batch into valid bookings and the ids of the
// records dropped as malformed. One bad record never aborts the batch; the
// rest still reach the merge.
func (v *BookingValidator) FilterValid(bookings []model.Booking) ([]model.Booking, []string) {
	valid := make([]model.Booking, 0, len(bookings))
	var dropped []string

	for i := range bookings {
		if err := v.check(&bookings[i]); err != nil {
			v.logger.Warn("Dropping malformed booking from refresh batch",
				"booking_id", bookings[i].ID,
				"error", err,
			)
			dropped = append(dropped, bookings[i].ID)
			continue
		}
		valid = append(valid, bookings[i])
	}

	return valid, dropped
}

func (v *BookingValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "calendar_date":
			message = fmt.Sprintf("%s must be a calendar date in YYYY-MM-DD format", err.Field())
		case "calendar_time":
			message = fmt.Sprintf("%s must be a time of day in HH:MM 24-hour format", err.Field())
		case "booking_status":
			message = fmt.Sprintf("%s must be a known booking status", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
