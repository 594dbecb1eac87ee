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

	directoryerrors "mediq/internal/directory/errors"
	"mediq/pkg/config"
	"mediq/pkg/model"
)

const (
	CollectionDoctors  = "Doctors"
	CollectionPatients = "Patients"
)

type mongoDirectoryRepository struct {
	cfg      *config.Config
	db       *mongo.Database
	doctors  *mongo.Collection
	patients *mongo.Collection
}

type DirectoryRepository interface {
	CreateDoctor(ctx context.Context, d *model.Doctor) error
	FindDoctorByID(ctx context.Context, id string) (*model.Doctor, error)
	FindDoctors(ctx context.Context, specialization string, limit int, offset int64) ([]*model.Doctor, error)
	CountDoctors(ctx context.Context, specialization string) (int64, error)
	UpdateDoctor(ctx context.Context, id string, updates *model.DoctorUpdate) error

	CreatePatient(ctx context.Context, p *model.Patient) error
	FindPatientByID(ctx context.Context, id string) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id string, updates *model.PatientUpdate) error
}

func NewMongoDirectoryRepository(cfg *config.Config) DirectoryRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDirectoryRepository{
		cfg:      cfg,
		db:       db,
		doctors:  db.Collection(CollectionDoctors),
		patients: db.Collection(CollectionPatients),
	}
}

func (r *mongoDirectoryRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoDirectoryRepository) CreateDoctor(ctx context.Context, d *model.Doctor) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	d.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.doctors.InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid.Hex()
	}
	return nil
}

func (r *mongoDirectoryRepository) FindDoctorByID(ctx context.Context, id string) (*model.Doctor, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", directoryerrors.ErrInvalidID, id)
	}

	var d model.Doctor
	err = r.doctors.FindOne(ctx, bson.M{"_id": objectID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", directoryerrors.ErrDoctorNotFound, id)
		}
		return nil, fmt.Errorf("failed to find doctor: %w", err)
	}

	return &d, nil
}

func (r *mongoDirectoryRepository) FindDoctors(ctx context.Context, specialization string, limit int, offset int64) ([]*model.Doctor, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if specialization != "" {
		filter["specialization"] = specialization
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.doctors.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var doctors []*model.Doctor
	if err = cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}
	return doctors, nil
}

func (r *mongoDirectoryRepository) CountDoctors(ctx context.Context, specialization string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if specialization != "" {
		filter["specialization"] = specialization
	}

	count, err := r.doctors.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count doctors: %w", err)
	}
	return count, nil
}

func (r *mongoDirectoryRepository) UpdateDoctor(ctx context.Context, id string, updates *model.DoctorUpdate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", directoryerrors.ErrInvalidID, id)
	}

	set := bson.M{}
	if updates.Name != "" {
		set["name"] = updates.Name
	}
	if updates.Specialization != "" {
		set["specialization"] = updates.Specialization
	}
	if updates.Contact != "" {
		set["contact"] = updates.Contact
	}
	if len(set) == 0 {
		return nil
	}

	result, err := r.doctors.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", directoryerrors.ErrDoctorNotFound, id)
	}
	return nil
}

func (r *mongoDirectoryRepository) CreatePatient(ctx context.Context, p *model.Patient) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	p.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.patients.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (r *mongoDirectoryRepository) FindPatientByID(ctx context.Context, id string) (*model.Patient, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", directoryerrors.ErrInvalidID, id)
	}

	var p model.Patient
	err = r.patients.FindOne(ctx, bson.M{"_id": objectID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", directoryerrors.ErrPatientNotFound, id)
		}
		return nil, fmt.Errorf("failed to find patient: %w", err)
	}

	return &p, nil
}

func (r *mongoDirectoryRepository) UpdatePatient(ctx context.Context, id string, updates *model.PatientUpdate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", directoryerrors.ErrInvalidID, id)
	}

	set := bson.M{}
	if updates.Name != "" {
		set["name"] = updates.Name
	}
	if updates.Age != nil {
		set["age"] = *updates.Age
	}
	if updates.Gender != "" {
		set["gender"] = updates.Gender
	}
	if updates.Contact != "" {
		set["contact"] = updates.Contact
	}
	if len(set) == 0 {
		return nil
	}

	result, err := r.patients.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", directoryerrors.ErrPatientNotFound, id)
	}
	return nil
}
