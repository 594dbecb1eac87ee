package model

import "time"

type AppointmentStatus string

const (
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusCompleted   AppointmentStatus = "completed"
	StatusRescheduled AppointmentStatus = "rescheduled"
	// StatusPending marks an orphaned appointment: its slot was invalidated
	// by a reshape and no replacement had room.
	StatusPending AppointmentStatus = "pending"
)

// Appointment links one patient, one doctor, and at most one slot.
// SlotID is a weak reference: slot deletion nulls it, never the appointment.
type Appointment struct {
	ID        string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PatientID string            `json:"patient_id" bson:"patient_id" validate:"required,mongodb"`
	DoctorID  string            `json:"doctor_id" bson:"doctor_id" validate:"required,mongodb"`
	SlotID    string            `json:"slot_id,omitempty" bson:"slot_id,omitempty" validate:"omitempty,mongodb"`
	Status    AppointmentStatus `json:"status" bson:"status" validate:"required,oneof=confirmed cancelled completed rescheduled pending"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time         `json:"updated_at,omitempty" bson:"updated_at,omitempty" validate:"omitempty"`
}

// AppointmentRequest is the booking payload.
type AppointmentRequest struct {
	DoctorID string `json:"doctor_id" validate:"required,mongodb"`
	SlotID   string `json:"slot_id" validate:"required,mongodb"`
}

// MoveRequest re-targets an appointment at a different slot.
type MoveRequest struct {
	SlotID string `json:"slot_id" validate:"required,mongodb"`
}
