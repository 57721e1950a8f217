package mongostore

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type indexDefinition struct {
	collection string
	index      mongo.IndexModel
}

type indexManager struct {
	db              *mongo.Database
	indexes         []indexDefinition
	timeout         time.Duration
	continueOnError bool
}

type indexResult struct {
	SuccessCount int
	FailedCount  int
	Duration     time.Duration
}

func newIndexManager(db *mongo.Database) *indexManager {
	return &indexManager{db: db, timeout: 60 * time.Second, continueOnError: true}
}

func (m *indexManager) addCompound(collection, name string, unique bool, fields ...bson.E) *indexManager {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	m.indexes = append(m.indexes, indexDefinition{
		collection: collection,
		index:      mongo.IndexModel{Keys: bson.D(fields), Options: opts},
	})
	return m
}

func asc(field string) bson.E  { return bson.E{Key: field, Value: 1} }
func desc(field string) bson.E { return bson.E{Key: field, Value: -1} }

func defaultIndexes(db *mongo.Database) *indexManager {
	return newIndexManager(db).
		addCompound(listingsCollection, "listings_status_created", false, asc("status"), desc("created_at")).
		addCompound(listingsCollection, "listings_owner_status", false, asc("owner_id"), asc("status")).
		addCompound(listingsCollection, "listings_location", false, asc("district"), asc("city")).
		addCompound(listingsCollection, "listings_slug", false, asc("slug")).
		addCompound(photosCollection, "photos_listing_order", false, asc("listing_id"), asc("sort_order")).
		addCompound(inquiriesCollection, "inquiries_listing", false, asc("listing_id"), desc("created_at")).
		addCompound(inquiriesCollection, "inquiries_owner", false, asc("listing_owner_id"), desc("created_at")).
		addCompound(reportsCollection, "reports_status_created", false, asc("status"), desc("created_at")).
		addCompound(approvalsCollection, "approvals_listing_created", false, asc("listing_id"), desc("created_at")).
		addCompound(usersCollection, "users_email", true, asc("email"))
}

func (m *indexManager) Create(ctx context.Context) (*indexResult, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	result := &indexResult{}
	for _, def := range m.indexes {
		name, err := m.db.Collection(def.collection).Indexes().CreateOne(ctx, def.index)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				log.Printf("Warning: Cannot create unique index on %s due to duplicate data", def.collection)
			} else {
				log.Printf("Failed to create index on %s: %v", def.collection, err)
			}
			result.FailedCount++
			if !m.continueOnError {
				result.Duration = time.Since(start)
				return result, err
			}
			continue
		}
		log.Printf("Created index %s on collection %s", name, def.collection)
		result.SuccessCount++
	}
	result.Duration = time.Since(start)

	if result.FailedCount > 0 {
		return result, fmt.Errorf("%d indexes failed to create", result.FailedCount)
	}
	return result, nil
}
