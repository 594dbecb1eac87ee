package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"mediq/pkg/logger"
	"mediq/pkg/model"
	"mediq/pkg/timewindow"
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

type AvailabilityValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAvailabilityValidator(log *logger.Logger) *AvailabilityValidator {
	v := validator.New()

	if err := v.RegisterValidation("clock_time", validateClockTime); err != nil {
		log.Fatal("Failed to register 'clock_time' validator", "error", err)
	}
	v.RegisterStructValidation(validateAvailabilityStruct, model.Availability{})

	log.Info("Availability validator initialized successfully")

	return &AvailabilityValidator{
		validate: v,
		logger:   log,
	}
}

func validateClockTime(fl validator.FieldLevel) bool {
	_, err := timewindow.ParseClock(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

// validateAvailabilityStruct enforces the cross-field rules a single tag
// cannot express: the window must be a forward interval long enough for at
// least one slot, and capacity must agree with the booking mode.
func validateAvailabilityStruct(sl validator.StructLevel) {
	av := sl.Current().Interface().(model.Availability)

	iv, err := timewindow.NewInterval(av.StartTime, av.EndTime)
	if err != nil {
		sl.ReportError(av.EndTime, "EndTime", "end_time", "forward_window", "")
		return
	}

	if av.SlotDurationMin > 0 && iv.Duration() < av.SlotDurationMin {
		sl.ReportError(av.SlotDurationMin, "SlotDurationMin", "slot_duration_min", "window_fits_slot", "")
	}

	switch av.Mode {
	case model.ModeWave:
		if av.MaxBookings == nil {
			sl.ReportError(av.MaxBookings, "MaxBookings", "max_bookings", "wave_capacity_required", "")
		}
	case model.ModeStream:
		if av.MaxBookings != nil {
			sl.ReportError(av.MaxBookings, "MaxBookings", "max_bookings", "stream_capacity_forbidden", "")
		}
	}
}

func (v *AvailabilityValidator) Validate(av *model.Availability) error {
	if err := v.validate.Struct(av); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *AvailabilityValidator) ValidateReshape(req *model.ReshapeRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if _, err := timewindow.NewInterval(req.StartTime, req.EndTime); err != nil {
		return ValidationErrors{{
			Field:   "EndTime",
			Message: "end_time must be after start_time",
		}}
	}
	return nil
}

func (v *AvailabilityValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", err.Field())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "clock_time":
			message = fmt.Sprintf("%s must be a time in HH:mm 24-hour format", err.Field())
		case "forward_window":
			message = "end_time must be after start_time"
		case "window_fits_slot":
			message = "window must be long enough for at least one slot of slot_duration_min"
		case "wave_capacity_required":
			message = "max_bookings is required when mode is wave"
		case "stream_capacity_forbidden":
			message = "max_bookings must not be set when mode is stream"
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
