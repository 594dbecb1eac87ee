package validator

import (
	"strings"
	"testing"

	"mediq/pkg/logger"
	"mediq/pkg/model"
)

func newTestValidator() *AvailabilityValidator {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewAvailabilityValidator(log)
}

func validAvailability() *model.Availability {
	return &model.Availability{
		DoctorID:        "64a000000000000000000001",
		Date:            "2025-08-04",
		Weekday:         model.Monday,
		Session:         model.Morning,
		StartTime:       "09:00",
		EndTime:         "11:00",
		Mode:            model.ModeStream,
		SlotDurationMin: 30,
	}
}

func TestValidate_AcceptsValidAvailability(t *testing.T) {
	v := newTestValidator()
	if err := v.Validate(validAvailability()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_FieldRules(t *testing.T) {
	three := 3

	tests := []struct {
		name    string
		mutate  func(av *model.Availability)
		wantMsg string
	}{
		{
			name:    "missing doctor",
			mutate:  func(av *model.Availability) { av.DoctorID = "" },
			wantMsg: "DoctorID is required",
		},
		{
			name:    "bad date format",
			mutate:  func(av *model.Availability) { av.Date = "04-08-2025" },
			wantMsg: "YYYY-MM-DD",
		},
		{
			name:    "bad weekday",
			mutate:  func(av *model.Availability) { av.Weekday = "someday" },
			wantMsg: "Weekday must be one of",
		},
		{
			name:    "bad clock time",
			mutate:  func(av *model.Availability) { av.StartTime = "9:00" },
			wantMsg: "HH:mm",
		},
		{
			name:    "inverted window",
			mutate:  func(av *model.Availability) { av.StartTime, av.EndTime = "11:00", "09:00" },
			wantMsg: "end_time must be after start_time",
		},
		{
			name:    "window shorter than slot",
			mutate:  func(av *model.Availability) { av.EndTime = "09:20" },
			wantMsg: "long enough for at least one slot",
		},
		{
			name:    "stream with capacity",
			mutate:  func(av *model.Availability) { av.MaxBookings = &three },
			wantMsg: "must not be set when mode is stream",
		},
		{
			name: "wave without capacity",
			mutate: func(av *model.Availability) {
				av.Mode = model.ModeWave
				av.MaxBookings = nil
			},
			wantMsg: "required when mode is wave",
		},
		{
			name:    "slot duration too small",
			mutate:  func(av *model.Availability) { av.SlotDurationMin = 5 },
			wantMsg: "SlotDurationMin must be at least 10",
		},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			av := validAvailability()
			tt.mutate(av)

			err := v.Validate(av)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateReshape(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateReshape(&model.ReshapeRequest{StartTime: "12:00", EndTime: "14:00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.ValidateReshape(&model.ReshapeRequest{StartTime: "14:00", EndTime: "12:00"}); err == nil {
		t.Fatal("expected error for inverted window")
	}

	if err := v.ValidateReshape(&model.ReshapeRequest{StartTime: "", EndTime: "12:00"}); err == nil {
		t.Fatal("expected error for missing start_time")
	}
}
