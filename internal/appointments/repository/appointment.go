package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appointmenterrors "mediq/internal/appointments/errors"
	"mediq/pkg/config"
	mongotx "mediq/pkg/db/mongo"
	"mediq/pkg/model"
)

const (
	CollectionAppointments   = "Appointments"
	CollectionSlots          = "Slots"
	CollectionAvailabilities = "Availabilities"
	CollectionDoctors        = "Doctors"
	CollectionPatients       = "Patients"
)

type mongoAppointmentRepository struct {
	cfg            *config.Config
	db             *mongo.Database
	appointments   *mongo.Collection
	slots          *mongo.Collection
	availabilities *mongo.Collection
	doctors        *mongo.Collection
	patients       *mongo.Collection
	txManager      mongotx.TransactionManager
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt *model.Appointment) error
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
	FindByPatient(ctx context.Context, patientID string, limit int, offset int64) ([]*model.Appointment, error)
	CountByPatient(ctx context.Context, patientID string) (int64, error)
	FindByDoctor(ctx context.Context, doctorID string, limit int, offset int64) ([]*model.Appointment, error)
	CountByDoctor(ctx context.Context, doctorID string) (int64, error)
	UpdateSlotAndStatus(ctx context.Context, id string, slotID string, status model.AppointmentStatus) error

	FindSlotByID(ctx context.Context, id string) (*model.Slot, error)
	UpdateSlotBooking(ctx context.Context, slot *model.Slot) error
	FindAvailabilityByID(ctx context.Context, id string) (*model.Availability, error)

	PatientExists(ctx context.Context, id string) (bool, error)
	DoctorExists(ctx context.Context, id string) (bool, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoAppointmentRepository(cfg *config.Config) AppointmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentRepository{
		cfg:            cfg,
		db:             db,
		appointments:   db.Collection(CollectionAppointments),
		slots:          db.Collection(CollectionSlots),
		availabilities: db.Collection(CollectionAvailabilities),
		doctors:        db.Collection(CollectionDoctors),
		patients:       db.Collection(CollectionPatients),
		txManager:      mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
func (r *mongoAppointmentRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	appt.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.appointments.InsertOne(ctx, appt)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		appt.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", appointmenterrors.ErrInvalidID, id)
	}

	var appt model.Appointment
	err = r.appointments.FindOne(ctx, bson.M{"_id": objectID}).Decode(&appt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", appointmenterrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}

	return &appt, nil
}

func (r *mongoAppointmentRepository) findByField(ctx context.Context, field, value string, limit int, offset int64) ([]*model.Appointment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.appointments.Find(ctx, bson.M{field: value}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []*model.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

func (r *mongoAppointmentRepository) countByField(ctx context.Context, field, value string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.appointments.CountDocuments(ctx, bson.M{field: value})
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

func (r *mongoAppointmentRepository) FindByPatient(ctx context.Context, patientID string, limit int, offset int64) ([]*model.Appointment, error) {
	return r.findByField(ctx, "patient_id", patientID, limit, offset)
}

func (r *mongoAppointmentRepository) CountByPatient(ctx context.Context, patientID string) (int64, error) {
	return r.countByField(ctx, "patient_id", patientID)
}

func (r *mongoAppointmentRepository) FindByDoctor(ctx context.Context, doctorID string, limit int, offset int64) ([]*model.Appointment, error) {
	return r.findByField(ctx, "doctor_id", doctorID, limit, offset)
}

func (r *mongoAppointmentRepository) CountByDoctor(ctx context.Context, doctorID string) (int64, error) {
	return r.countByField(ctx, "doctor_id", doctorID)
}

func (r *mongoAppointmentRepository) UpdateSlotAndStatus(ctx context.Context, id string, slotID string, status model.AppointmentStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", appointmenterrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"slot_id":    slotID,
			"status":     status,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}
	if slotID == "" {
		update = bson.M{
			"$set": bson.M{
				"status":     status,
				"updated_at": time.Now().UTC().Truncate(time.Millisecond),
			},
			"$unset": bson.M{"slot_id": ""},
		}
	}

	result, err := r.appointments.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", appointmenterrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoAppointmentRepository) FindSlotByID(ctx context.Context, id string) (*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", appointmenterrors.ErrInvalidID, id)
	}

	var slot model.Slot
	err = r.slots.FindOne(ctx, bson.M{"_id": objectID}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", appointmenterrors.ErrSlotNotFound, id)
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}

	return &slot, nil
}

func (r *mongoAppointmentRepository) UpdateSlotBooking(ctx context.Context, slot *model.Slot) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(slot.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", appointmenterrors.ErrInvalidID, slot.ID)
	}

	result, err := r.slots.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{
			"booking_count": slot.BookingCount,
			"is_booked":     slot.IsBooked,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update slot booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", appointmenterrors.ErrSlotNotFound, slot.ID)
	}
	return nil
}

func (r *mongoAppointmentRepository) FindAvailabilityByID(ctx context.Context, id string) (*model.Availability, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", appointmenterrors.ErrInvalidID, id)
	}

	var av model.Availability
	err = r.availabilities.FindOne(ctx, bson.M{"_id": objectID}).Decode(&av)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("availability not found: %s", id)
		}
		return nil, fmt.Errorf("failed to find availability: %w", err)
	}

	return &av, nil
}

func (r *mongoAppointmentRepository) existsByID(ctx context.Context, coll *mongo.Collection, id string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", appointmenterrors.ErrInvalidID, id)
	}

	count, err := coll.CountDocuments(ctx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return count > 0, nil
}

func (r *mongoAppointmentRepository) PatientExists(ctx context.Context, id string) (bool, error) {
	return r.existsByID(ctx, r.patients, id)
}

func (r *mongoAppointmentRepository) DoctorExists(ctx context.Context, id string) (bool, error) {
	return r.existsByID(ctx, r.doctors, id)
}

func (r *mongoAppointmentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
