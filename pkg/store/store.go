// Package store declares the persistence contract used by services. The
// mongostore and sqlstore packages implement it.
package store

import (
	"context"

	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/search"
)

type Page struct {
	Limit int
	Skip  int
}

// Store opens transactions. fn runs with a Tx whose writes commit together
// or not at all; any error returned by fn rolls back.
type Store interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reader returns repositories that run outside any transaction.
	Reader() Tx
	Migrate(ctx context.Context) error
	Close(ctx context.Context) error
}

type Tx interface {
	Listings() ListingRepository
	Photos() PhotoRepository
	Inquiries() InquiryRepository
	Reports() ReportRepository
	Approvals() ApprovalRepository
	Users() UserRepository
}

type ListingRepository interface {
	Insert(ctx context.Context, l *models.Listing) error
	FindByID(ctx context.Context, id string) (*models.Listing, error)
	FindBySlug(ctx context.Context, slug string) (*models.Listing, error)
	// Update writes l only if the stored version equals expectedVersion and
	// bumps l.Version. A mismatch yields errs.ErrConflict.
	Update(ctx context.Context, l *models.Listing, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q search.Query) ([]models.Listing, int64, error)
	CountByStatus(ctx context.Context, ownerID string) (map[models.ListingStatus]int64, error)
}

type PhotoRepository interface {
	Insert(ctx context.Context, p *models.ListingPhoto) error
	FindByID(ctx context.Context, id string) (*models.ListingPhoto, error)
	// ListByListing orders by sort order then creation time.
	ListByListing(ctx context.Context, listingID string) ([]models.ListingPhoto, error)
	// MaxSortOrder returns -1 when the listing has no photos.
	MaxSortOrder(ctx context.Context, listingID string) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteByListing(ctx context.Context, listingID string) error
}

type InquiryRepository interface {
	Insert(ctx context.Context, i *models.Inquiry) error
	ListByListing(ctx context.Context, listingID string, p Page) ([]models.Inquiry, int64, error)
	ListByOwner(ctx context.Context, ownerID string, p Page) ([]models.Inquiry, int64, error)
	DeleteByListing(ctx context.Context, listingID string) error
}

type ReportRepository interface {
	Insert(ctx context.Context, r *models.Report) error
	FindByID(ctx context.Context, id string) (*models.Report, error)
	// UpdateStatus moves the report only if it is still in status from.
	UpdateStatus(ctx context.Context, r *models.Report, from models.ReportStatus) error
	List(ctx context.Context, status models.ReportStatus, p Page) ([]models.Report, int64, error)
	Count(ctx context.Context, status models.ReportStatus) (int64, error)
}

// ApprovalRepository is append only. Listings are newest first.
type ApprovalRepository interface {
	Append(ctx context.Context, a *models.ApprovalAction) error
	ListByListing(ctx context.Context, listingID string, p Page) ([]models.ApprovalAction, int64, error)
	List(ctx context.Context, p Page) ([]models.ApprovalAction, int64, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Upsert(ctx context.Context, u *models.User) error
}
