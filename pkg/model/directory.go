package model

import "time"

// Doctor and Patient are the directory records the scheduling services
// resolve ownership against. Authentication happens upstream; these rows
// only anchor foreign keys and display fields.

type Doctor struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID         string    `json:"user_id" bson:"user_id" validate:"required"`
	Name           string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Specialization string    `json:"specialization" bson:"specialization" validate:"required,min=2,max=100"`
	Contact        string    `json:"contact,omitempty" bson:"contact,omitempty" validate:"omitempty,max=30"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type Patient struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Age       int       `json:"age" bson:"age" validate:"required,min=0,max=130"`
	Gender    string    `json:"gender" bson:"gender" validate:"required,oneof=male female other"`
	Contact   string    `json:"contact,omitempty" bson:"contact,omitempty" validate:"omitempty,max=30"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type DoctorUpdate struct {
	Name           string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Specialization string `json:"specialization,omitempty" validate:"omitempty,min=2,max=100"`
	Contact        string `json:"contact,omitempty" validate:"omitempty,max=30"`
}

type PatientUpdate struct {
	Name    string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Age     *int   `json:"age,omitempty" validate:"omitempty,min=0,max=130"`
	Gender  string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Contact string `json:"contact,omitempty" validate:"omitempty,max=30"`
}
