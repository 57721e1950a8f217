// Package mongostore implements store.Store on MongoDB. Transactions need a
// replica set.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/store"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	listingsCollection  = "listings"
	photosCollection    = "listing_photos"
	inquiriesCollection = "inquiries"
	reportsCollection   = "reports"
	approvalsCollection = "approval_actions"
	usersCollection     = "users"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// Connect dials uri and pings the primary before returning.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	log.Println("starting MongoDB connection..")
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}
	log.Println("MongoDB connection successful")
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	wc := writeconcern.New(writeconcern.WMajority())
	txnOptions := options.Transaction().SetWriteConcern(wc)
	session, err := s.client.StartSession()
	if err != nil {
		return errs.Wrap(err, "mongostore.session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc, s.repos())
	}, txnOptions)
	return err
}

// Reader shares collections with transactional repos; the session travels in ctx.
func (s *Store) Reader() store.Tx {
	return s.repos()
}

// Migrate creates indexes, then applies pending data migrations.
func (s *Store) Migrate(ctx context.Context) error {
	res, err := defaultIndexes(s.db).Create(ctx)
	if res != nil {
		log.Printf("indexes: %d created, %d failed in %v", res.SuccessCount, res.FailedCount, res.Duration)
	}
	if err != nil {
		return err
	}
	return newMigrationManager(s.db, dataMigrations).Run(ctx)
}

// MigrationStatus reports applied data migrations and those still pending.
func (s *Store) MigrationStatus(ctx context.Context) ([]MigrationStatus, []string, error) {
	mm := newMigrationManager(s.db, dataMigrations)
	applied, err := mm.Status(ctx)
	if err != nil {
		return nil, nil, err
	}
	return applied, mm.Pending(applied), nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) repos() repos {
	return repos{db: s.db}
}

type repos struct {
	db *mongo.Database
}

func (r repos) Listings() store.ListingRepository {
	return listingRepo{coll: r.db.Collection(listingsCollection), users: r.db.Collection(usersCollection)}
}
func (r repos) Photos() store.PhotoRepository {
	return photoRepo{coll: r.db.Collection(photosCollection)}
}
func (r repos) Inquiries() store.InquiryRepository {
	return inquiryRepo{coll: r.db.Collection(inquiriesCollection)}
}
func (r repos) Reports() store.ReportRepository {
	return reportRepo{coll: r.db.Collection(reportsCollection)}
}
func (r repos) Approvals() store.ApprovalRepository {
	return approvalRepo{coll: r.db.Collection(approvalsCollection)}
}
func (r repos) Users() store.UserRepository {
	return userRepo{coll: r.db.Collection(usersCollection)}
}

func notFound(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.Wrap(errs.ErrNotFound, op)
	}
	return errs.Wrap(err, op)
}

func findOptions(limit, skip int) *options.FindOptions {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	return opts
}
