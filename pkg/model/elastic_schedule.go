package model

import "time"

// ElasticSchedule records one reshape of an availability window occurrence.
// Immutable once created; no two records may share the same
// (date, weekday, start_time, end_time).
type ElasticSchedule struct {
	ID              string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AvailabilityID  string      `json:"availability_id" bson:"availability_id" validate:"required,mongodb"`
	Date            string      `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Weekday         Weekday     `json:"weekday" bson:"weekday" validate:"required,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	Session         Session     `json:"session" bson:"session" validate:"required,oneof=morning afternoon evening"`
	StartTime       string      `json:"start_time" bson:"start_time" validate:"required,clock_time"`
	EndTime         string      `json:"end_time" bson:"end_time" validate:"required,clock_time"`
	Mode            BookingMode `json:"mode" bson:"mode" validate:"required,oneof=stream wave"`
	MaxBookings     *int        `json:"max_bookings,omitempty" bson:"max_bookings,omitempty" validate:"omitempty,min=1,max=200"`
	SlotDurationMin int         `json:"slot_duration_min" bson:"slot_duration_min" validate:"required,min=10,max=480"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at" validate:"omitempty"`
}
