package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(*mongo.Database) error
	Down        func(*mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrator(db *mongo.Database) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
	}
}

func (m *Migrator) Up() error {
	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}
		if err := migration.Up(m.db); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}
		if err := m.setVersion(migration.Version); err != nil {
			return fmt.Errorf("failed to record migration version %d: %w", migration.Version, err)
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var doc struct {
		Version int `bson:"version"`
	}
	err := m.db.Collection("migrations").FindOne(ctx, bson.M{"_id": "schema"}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.Version, nil
}

func (m *Migrator) setVersion(version int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.db.Collection("migrations").UpdateOne(
		ctx,
		bson.M{"_id": "schema"},
		bson.M{"$set": bson.M{"version": version, "applied_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create bookings collection with seat uniqueness index",
			Up:          createBookingIndexes,
			Down: func(db *mongo.Database) error {
				return db.Collection("bookings").Drop(context.Background())
			},
		},
		{
			Version:     2,
			Description: "Create trips collection with search indexes",
			Up:          createTripIndexes,
			Down: func(db *mongo.Database) error {
				return db.Collection("trips").Drop(context.Background())
			},
		},
		{
			Version:     3,
			Description: "Create reviews collection with one-per-booking-per-user index",
			Up:          createReviewIndexes,
			Down: func(db *mongo.Database) error {
				return db.Collection("reviews").Drop(context.Background())
			},
		},
		{
			Version:     4,
			Description: "Create vehicles, drivers and users indexes",
			Up:          createFleetIndexes,
			Down: func(db *mongo.Database) error {
				if err := db.Collection("vehicles").Drop(context.Background()); err != nil {
					return err
				}
				return db.Collection("drivers").Drop(context.Background())
			},
		},
	}
}

func createBookingIndexes(db *mongo.Database) error {
	ctx := context.Background()

	indexes := []mongo.IndexModel{
		// The core invariant: at most one seat-holding booking may claim a
		// given (trip, seat label) pair. The index is multikey over the
		// seats array and scoped to documents whose seats are still held,
		// so cancelled bookings fall out of the constraint and their
		// seats become insertable again.
		{
			Keys: bson.D{{Key: "trip_id", Value: 1}, {Key: "seats", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_trip_seat_active").
				SetPartialFilterExpression(bson.M{"holds_seats": true}),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "trip_id", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := db.Collection("bookings").Indexes().CreateMany(ctx, indexes)
	return err
}

func createTripIndexes(db *mongo.Database) error {
	ctx := context.Background()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "departure_time", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "origin", Value: 1}, {Key: "destination", Value: 1}, {Key: "departure_time", Value: 1}},
		},
	}

	_, err := db.Collection("trips").Indexes().CreateMany(ctx, indexes)
	return err
}

func createReviewIndexes(db *mongo.Database) error {
	ctx := context.Background()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_booking_reviewer"),
		},
		{
			Keys: bson.D{{Key: "trip_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "driver_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := db.Collection("reviews").Indexes().CreateMany(ctx, indexes)
	return err
}

func createFleetIndexes(db *mongo.Database) error {
	ctx := context.Background()

	_, err := db.Collection("vehicles").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "registration_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("drivers").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
