package model

// Slot is one bookable instance expanded from an availability window.
// Elastic slots were produced by a reshape and also reference the
// ElasticSchedule that created them.
type Slot struct {
	ID                string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AvailabilityID    string      `json:"availability_id" bson:"availability_id" validate:"required,mongodb"`
	ElasticScheduleID string      `json:"elastic_schedule_id,omitempty" bson:"elastic_schedule_id,omitempty" validate:"omitempty,mongodb"`
	Date              string      `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime         string      `json:"start_time" bson:"start_time" validate:"required,clock_time"`
	EndTime           string      `json:"end_time" bson:"end_time" validate:"required,clock_time"`
	Mode              BookingMode `json:"mode" bson:"mode" validate:"required,oneof=stream wave"`
	BookingCount      int         `json:"booking_count" bson:"booking_count" validate:"min=0"`
	IsBooked          bool        `json:"is_booked" bson:"is_booked"`
	IsElastic         bool        `json:"is_elastic" bson:"is_elastic"`
}

// Key identifies a slot position within one date; used for idempotent
// re-tiling on expanded reshapes.
func (s *Slot) Key() string {
	return s.StartTime + "-" + s.EndTime
}
