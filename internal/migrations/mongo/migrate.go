package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediq/internal/migrations/mongo/validators"
)

var (
	DoctorsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "specialization", Value: 1}, {Key: "name", Value: 1}}},
	}

	PatientsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	AvailabilitiesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "doctor_id", Value: 1}, {Key: "weekday", Value: 1}}},
	}

	SlotsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "availability_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "start_time", Value: 1},
		}},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "is_booked", Value: 1}}},
	}

	AppointmentsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "patient_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "doctor_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "slot_id", Value: 1}, {Key: "status", Value: 1}}},
	}

	// One elastic schedule record per exact reshape window.
	ElasticSchedulesIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "date", Value: 1},
				{Key: "weekday", Value: 1},
				{Key: "start_time", Value: 1},
				{Key: "end_time", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "availability_id", Value: 1}}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running Mediq Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Doctors": {
			Indexes:   DoctorsIndexes,
			Validator: validators.DoctorValidator,
		},
		"Patients": {
			Indexes:   PatientsIndexes,
			Validator: validators.PatientValidator,
		},
		"Availabilities": {
			Indexes:   AvailabilitiesIndexes,
			Validator: validators.AvailabilityValidator,
		},
		"Slots": {
			Indexes:   SlotsIndexes,
			Validator: validators.SlotValidator,
		},
		"Appointments": {
			Indexes:   AppointmentsIndexes,
			Validator: validators.AppointmentValidator,
		},
		"ElasticSchedules": {
			Indexes:   ElasticSchedulesIndexes,
			Validator: validators.ElasticScheduleValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
