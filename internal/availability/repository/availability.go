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

	availabilityerrors "mediq/internal/availability/errors"
	"mediq/pkg/config"
	mongotx "mediq/pkg/db/mongo"
	"mediq/pkg/model"
)

const (
	CollectionAvailabilities   = "Availabilities"
	CollectionSlots            = "Slots"
	CollectionElasticSchedules = "ElasticSchedules"
	CollectionAppointments     = "Appointments"
	CollectionDoctors          = "Doctors"
)

type mongoAvailabilityRepository struct {
	cfg              *config.Config
	db               *mongo.Database
	availabilities   *mongo.Collection
	slots            *mongo.Collection
	elasticSchedules *mongo.Collection
	appointments     *mongo.Collection
	doctors          *mongo.Collection
	txManager        mongotx.TransactionManager
}

type AvailabilityRepository interface {
	Create(ctx context.Context, av *model.Availability) error
	FindByID(ctx context.Context, id string) (*model.Availability, error)
	FindByDoctor(ctx context.Context, doctorID string, limit int, offset int64) ([]*model.Availability, error)
	CountByDoctor(ctx context.Context, doctorID string) (int64, error)
	FindByDoctorAndWeekday(ctx context.Context, doctorID string, weekday model.Weekday, session model.Session) ([]*model.Availability, error)
	UpdateAvailabilityStatus(ctx context.Context, id string, isAvailable bool) error

	InsertSlots(ctx context.Context, slots []*model.Slot) error
	FindSlotByID(ctx context.Context, id string) (*model.Slot, error)
	FindSlotsByAvailabilityAndDate(ctx context.Context, availabilityID string, date string) ([]*model.Slot, error)
	FindSlotsByDoctor(ctx context.Context, doctorID string, date string) ([]*model.Slot, error)
	UpdateSlotBooking(ctx context.Context, slot *model.Slot) error
	DeleteSlot(ctx context.Context, id string) error
	DeleteSlots(ctx context.Context, ids []string) error

	CreateElasticSchedule(ctx context.Context, es *model.ElasticSchedule) error
	FindElasticSchedule(ctx context.Context, date string, weekday model.Weekday, startTime, endTime string) (*model.ElasticSchedule, error)

	FindAppointmentsBySlotIDs(ctx context.Context, slotIDs []string) ([]*model.Appointment, error)
	UpdateAppointmentSlot(ctx context.Context, appointmentID string, slotID string, status model.AppointmentStatus) error

	DoctorExists(ctx context.Context, id string) (bool, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:              cfg,
		db:               db,
		availabilities:   db.Collection(CollectionAvailabilities),
		slots:            db.Collection(CollectionSlots),
		elasticSchedules: db.Collection(CollectionElasticSchedules),
		appointments:     db.Collection(CollectionAppointments),
		doctors:          db.Collection(CollectionDoctors),
		txManager:        mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// inside a transaction the original context is returned with a no-op cancel.
func (r *mongoAvailabilityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAvailabilityRepository) Create(ctx context.Context, av *model.Availability) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	av.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.availabilities.InsertOne(ctx, av)
	if err != nil {
		return fmt.Errorf("failed to create availability: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		av.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAvailabilityRepository) FindByID(ctx context.Context, id string) (*model.Availability, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	var av model.Availability
	err = r.availabilities.FindOne(ctx, bson.M{"_id": objectID}).Decode(&av)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", availabilityerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find availability: %w", err)
	}

	return &av, nil
}

func (r *mongoAvailabilityRepository) FindByDoctor(ctx context.Context, doctorID string, limit int, offset int64) ([]*model.Availability, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})

	cursor, err := r.availabilities.Find(ctx, bson.M{"doctor_id": doctorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query availabilities: %w", err)
	}
	defer cursor.Close(ctx)

	var avs []*model.Availability
	if err = cursor.All(ctx, &avs); err != nil {
		return nil, fmt.Errorf("failed to decode availabilities: %w", err)
	}
	return avs, nil
}

func (r *mongoAvailabilityRepository) CountByDoctor(ctx context.Context, doctorID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.availabilities.CountDocuments(ctx, bson.M{"doctor_id": doctorID})
	if err != nil {
		return 0, fmt.Errorf("failed to count availabilities: %w", err)
	}
	return count, nil
}

func (r *mongoAvailabilityRepository) FindByDoctorAndWeekday(ctx context.Context, doctorID string, weekday model.Weekday, session model.Session) ([]*model.Availability, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.availabilities.Find(ctx, bson.M{
		"doctor_id": doctorID,
		"weekday":   weekday,
		"session":   session,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query availabilities: %w", err)
	}
	defer cursor.Close(ctx)

	var avs []*model.Availability
	if err = cursor.All(ctx, &avs); err != nil {
		return nil, fmt.Errorf("failed to decode availabilities: %w", err)
	}
	return avs, nil
}

func (r *mongoAvailabilityRepository) UpdateAvailabilityStatus(ctx context.Context, id string, isAvailable bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"is_available": isAvailable,
		"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.availabilities.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update availability status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoAvailabilityRepository) InsertSlots(ctx context.Context, slots []*model.Slot) error {
	if len(slots) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]interface{}, len(slots))
	for i, s := range slots {
		docs[i] = s
	}

	result, err := r.slots.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert slots: %w", err)
	}

	for i, insertedID := range result.InsertedIDs {
		if oid, ok := insertedID.(primitive.ObjectID); ok {
			slots[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoAvailabilityRepository) FindSlotByID(ctx context.Context, id string) (*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	var slot model.Slot
	err = r.slots.FindOne(ctx, bson.M{"_id": objectID}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", availabilityerrors.ErrSlotNotFound, id)
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}

	return &slot, nil
}

func (r *mongoAvailabilityRepository) FindSlotsByAvailabilityAndDate(ctx context.Context, availabilityID string, date string) ([]*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.slots.Find(ctx, bson.M{
		"availability_id": availabilityID,
		"date":            date,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.Slot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *mongoAvailabilityRepository) FindSlotsByDoctor(ctx context.Context, doctorID string, date string) ([]*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.availabilities.Find(ctx, bson.M{"doctor_id": doctorID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to query availabilities: %w", err)
	}
	defer cursor.Close(ctx)

	var refs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &refs); err != nil {
		return nil, fmt.Errorf("failed to decode availability ids: %w", err)
	}
	if len(refs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID.Hex()
	}

	filter := bson.M{"availability_id": bson.M{"$in": ids}}
	if date != "" {
		filter["date"] = date
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})
	slotCursor, err := r.slots.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer slotCursor.Close(ctx)

	var slots []*model.Slot
	if err = slotCursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *mongoAvailabilityRepository) UpdateSlotBooking(ctx context.Context, slot *model.Slot) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(slot.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, slot.ID)
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
		return fmt.Errorf("%w: %s", availabilityerrors.ErrSlotNotFound, slot.ID)
	}
	return nil
}

func (r *mongoAvailabilityRepository) DeleteSlot(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	result, err := r.slots.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrSlotNotFound, id)
	}
	return nil
}

func (r *mongoAvailabilityRepository) DeleteSlots(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
		}
		objectIDs = append(objectIDs, oid)
	}

	_, err := r.slots.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return fmt.Errorf("failed to delete slots: %w", err)
	}
	return nil
}

func (r *mongoAvailabilityRepository) CreateElasticSchedule(ctx context.Context, es *model.ElasticSchedule) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	es.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.elasticSchedules.InsertOne(ctx, es)
	if err != nil {
		return fmt.Errorf("failed to create elastic schedule: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		es.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAvailabilityRepository) FindElasticSchedule(ctx context.Context, date string, weekday model.Weekday, startTime, endTime string) (*model.ElasticSchedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var es model.ElasticSchedule
	err := r.elasticSchedules.FindOne(ctx, bson.M{
		"date":       date,
		"weekday":    weekday,
		"start_time": startTime,
		"end_time":   endTime,
	}).Decode(&es)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find elastic schedule: %w", err)
	}

	return &es, nil
}

func (r *mongoAvailabilityRepository) FindAppointmentsBySlotIDs(ctx context.Context, slotIDs []string) ([]*model.Appointment, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.appointments.Find(ctx, bson.M{
		"slot_id": bson.M{"$in": slotIDs},
		"status":  bson.M{"$in": []model.AppointmentStatus{model.StatusConfirmed, model.StatusRescheduled}},
	})
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

func (r *mongoAvailabilityRepository) UpdateAppointmentSlot(ctx context.Context, appointmentID string, slotID string, status model.AppointmentStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, appointmentID)
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
		return fmt.Errorf("failed to update appointment slot: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("appointment not found: %s", appointmentID)
	}
	return nil
}

func (r *mongoAvailabilityRepository) DoctorExists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	count, err := r.doctors.CountDocuments(ctx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check doctor existence: %w", err)
	}
	return count > 0, nil
}

func (r *mongoAvailabilityRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
