// Package sqlstore implements store.Store on gorm, against postgres in
// production and sqlite in tests.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/store"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects with the named driver ("postgres" or "sqlite").
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// sqlite allows a single writer; one connection keeps transactions serialised.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db), nil
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.ListingPhoto{},
		&models.ApprovalAction{},
		&models.Report{},
		&models.Inquiry{},
	)
}

func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, repos{db: tx})
	})
}

func (s *Store) Reader() store.Tx {
	return repos{db: s.db}
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type repos struct {
	db *gorm.DB
}

func (r repos) Listings() store.ListingRepository   { return listingRepo(r) }
func (r repos) Photos() store.PhotoRepository       { return photoRepo(r) }
func (r repos) Inquiries() store.InquiryRepository  { return inquiryRepo(r) }
func (r repos) Reports() store.ReportRepository     { return reportRepo(r) }
func (r repos) Approvals() store.ApprovalRepository { return approvalRepo(r) }
func (r repos) Users() store.UserRepository         { return userRepo(r) }

func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.Wrap(errs.ErrNotFound, op)
	}
	return errs.Wrap(err, op)
}

func paginate(db *gorm.DB, p store.Page) *gorm.DB {
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	if p.Skip > 0 {
		db = db.Offset(p.Skip)
	}
	return db
}
