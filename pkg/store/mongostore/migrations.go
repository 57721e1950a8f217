package mongostore

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const migrationCollection = "_migrations"

// dataMigration is a one-off document rewrite, applied at most once.
type dataMigration struct {
	Version     string
	Description string
	Up          func(ctx context.Context, db *mongo.Database) error
}

type MigrationStatus struct {
	Version   string    `bson:"version" json:"version"`
	AppliedAt time.Time `bson:"applied_at" json:"appliedAt"`
	Success   bool      `bson:"success" json:"success"`
}

var dataMigrations = []dataMigration{
	{
		Version:     "0001",
		Description: "backfill listing version counters",
		Up: func(ctx context.Context, db *mongo.Database) error {
			_, err := db.Collection(listingsCollection).UpdateMany(ctx,
				bson.M{"version": bson.M{"$exists": false}},
				bson.M{"$set": bson.M{"version": int64(1)}})
			return err
		},
	},
	{
		Version:     "0002",
		Description: "lowercase user emails",
		Up: func(ctx context.Context, db *mongo.Database) error {
			_, err := db.Collection(usersCollection).UpdateMany(ctx,
				bson.M{"email": bson.M{"$regex": "[A-Z]"}},
				mongo.Pipeline{{{Key: "$set", Value: bson.M{"email": bson.M{"$toLower": "$email"}}}}})
			return err
		},
	},
}

type migrationManager struct {
	db         *mongo.Database
	migrations []dataMigration
}

func newMigrationManager(db *mongo.Database, migrations []dataMigration) *migrationManager {
	sorted := append([]dataMigration(nil), migrations...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})
	return &migrationManager{db: db, migrations: sorted}
}

func (mm *migrationManager) Run(ctx context.Context) error {
	coll := mm.db.Collection(migrationCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "version", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create migration index: %w", err)
	}

	for _, m := range mm.migrations {
		applied, err := mm.isApplied(ctx, m.Version)
		if err != nil {
			return fmt.Errorf("failed to check migration status for %s: %w", m.Version, err)
		}
		if applied {
			continue
		}

		log.Printf("Running migration %s: %s", m.Version, m.Description)
		start := time.Now()
		err = m.Up(ctx, mm.db)
		status := MigrationStatus{Version: m.Version, AppliedAt: time.Now().UTC(), Success: err == nil}

		upsert := options.Replace().SetUpsert(true)
		if _, saveErr := coll.ReplaceOne(ctx, bson.M{"version": m.Version}, status, upsert); saveErr != nil {
			log.Printf("Failed to save migration status: %v", saveErr)
			if err == nil {
				return fmt.Errorf("failed to save migration status: %w", saveErr)
			}
		}
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", m.Version, err)
		}
		log.Printf("Migration %s completed in %v", m.Version, time.Since(start))
	}
	return nil
}

func (mm *migrationManager) Status(ctx context.Context) ([]MigrationStatus, error) {
	cursor, err := mm.db.Collection(migrationCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "version", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query migration status: %w", err)
	}
	defer cursor.Close(ctx)

	var statuses []MigrationStatus
	if err = cursor.All(ctx, &statuses); err != nil {
		return nil, fmt.Errorf("failed to decode migration statuses: %w", err)
	}
	return statuses, nil
}

// Pending lists migrations without a successful status record.
func (mm *migrationManager) Pending(applied []MigrationStatus) []string {
	done := make(map[string]bool, len(applied))
	for _, s := range applied {
		done[s.Version] = s.Success
	}
	var pending []string
	for _, m := range mm.migrations {
		if !done[m.Version] {
			pending = append(pending, m.Version)
		}
	}
	return pending
}

func (mm *migrationManager) isApplied(ctx context.Context, version string) (bool, error) {
	count, err := mm.db.Collection(migrationCollection).CountDocuments(ctx, bson.M{"version": version, "success": true})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
