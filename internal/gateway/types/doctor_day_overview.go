package types

import (
	"fmt"
	"strings"
	"time"

	"mediq/pkg/model"
	"mediq/pkg/timewindow"
)

// DoctorDayOverviewInput defines the input parameters for the day overview flow
type DoctorDayOverviewInput struct {
	DoctorID string `json:"doctor_id" validate:"required,mongodb"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
}

// DoctorDayOverviewOutput defines the output structure (for documentation)
type DoctorDayOverviewOutput struct {
	Result *DayOverview `json:"result"`
}

// DayOverview is one doctor's full picture for a single date
type DayOverview struct {
	Doctor *model.Doctor `json:"doctor"`
	Date   string        `json:"date"`
	Slots  []*DaySlot    `json:"slots"`
}

// DaySlot is a slot together with the appointments occupying it
type DaySlot struct {
	SlotID       string             `json:"slot_id"`
	StartTime    string             `json:"start_time"`
	EndTime      string             `json:"end_time"`
	Mode         model.BookingMode  `json:"mode"`
	BookingCount int                `json:"booking_count"`
	IsBooked     bool               `json:"is_booked"`
	IsElastic    bool               `json:"is_elastic"`
	Appointments []*DayAppointment  `json:"appointments"`
}

// DayAppointment is the slice of an appointment relevant for the overview
type DayAppointment struct {
	AppointmentID string                  `json:"appointment_id"`
	PatientID     string                  `json:"patient_id"`
	Status        model.AppointmentStatus `json:"status"`
}

// Validate checks if all required fields are present and valid
func (i *DoctorDayOverviewInput) Validate() error {
	var errors []string

	if strings.TrimSpace(i.DoctorID) == "" {
		errors = append(errors, "doctor_id is required")
	}

	if strings.TrimSpace(i.Date) == "" {
		errors = append(errors, "date is required")
	} else if _, err := time.Parse(timewindow.DateLayout, i.Date); err != nil {
		errors = append(errors, "date must use the YYYY-MM-DD layout")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// FromMapDoctorDayOverview creates a DoctorDayOverviewInput from a flow input map and validates it
func FromMapDoctorDayOverview(input map[string]any) (*DoctorDayOverviewInput, error) {
	i := &DoctorDayOverviewInput{}

	if doctorID, ok := input["doctor_id"].(string); ok {
		i.DoctorID = doctorID
	}
	if date, ok := input["date"].(string); ok {
		i.Date = date
	}

	if err := i.Validate(); err != nil {
		return nil, err
	}

	return i, nil
}
