package model

import "time"

type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

type Session string

const (
	Morning   Session = "morning"
	Afternoon Session = "afternoon"
	Evening   Session = "evening"
)

type BookingMode string

const (
	// ModeStream: one booking exclusively occupies a slot.
	ModeStream BookingMode = "stream"
	// ModeWave: a slot admits up to MaxBookings concurrent bookings.
	ModeWave BookingMode = "wave"
)

// Availability is one doctor's recurring weekly publication: the anchor date
// plus weekday define the occurrences, start/end are wall-clock HH:mm.
type Availability struct {
	ID              string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	DoctorID        string      `json:"doctor_id" bson:"doctor_id" validate:"required,mongodb"`
	Date            string      `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Weekday         Weekday     `json:"weekday" bson:"weekday" validate:"required,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	Session         Session     `json:"session" bson:"session" validate:"required,oneof=morning afternoon evening"`
	StartTime       string      `json:"start_time" bson:"start_time" validate:"required,clock_time"`
	EndTime         string      `json:"end_time" bson:"end_time" validate:"required,clock_time"`
	Mode            BookingMode `json:"mode" bson:"mode" validate:"required,oneof=stream wave"`
	MaxBookings     *int        `json:"max_bookings,omitempty" bson:"max_bookings,omitempty" validate:"omitempty,min=1,max=200"`
	SlotDurationMin int         `json:"slot_duration_min" bson:"slot_duration_min" validate:"required,min=10,max=480"`
	IsAvailable     bool        `json:"is_available" bson:"is_available"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time   `json:"updated_at,omitempty" bson:"updated_at,omitempty" validate:"omitempty"`
}

// ReshapeRequest is a doctor's proposed replacement bounds for the window's
// anchored occurrence date.
type ReshapeRequest struct {
	StartTime string `json:"start_time" validate:"required,clock_time"`
	EndTime   string `json:"end_time" validate:"required,clock_time"`
}
