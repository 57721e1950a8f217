package services

import (
	"context"
	"io"

	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/search"
	"ceylonhomes-api-io/api/pkg/store"
)

// Upload is one file from a multipart request.
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// ListingService defines the owner facing listing operations
type ListingService interface {
	CreateListing(ctx context.Context, actor models.Actor, req models.CreateListingRequest) (*models.Listing, error)
	EditListing(ctx context.Context, actor models.Actor, listingID string, req models.UpdateListingRequest) (*models.Listing, error)
	MarkSold(ctx context.Context, actor models.Actor, listingID string) (*models.Listing, error)
	MarkRented(ctx context.Context, actor models.Actor, listingID string) (*models.Listing, error)
	ArchiveListing(ctx context.Context, actor models.Actor, listingID string) (*models.Listing, error)
	DeleteListing(ctx context.Context, actor models.Actor, listingID string) error

	AddPhotos(ctx context.Context, actor models.Actor, listingID string, files []Upload) ([]models.ListingPhoto, error)
	RemovePhoto(ctx context.Context, actor models.Actor, photoID string) error

	// GetListing accepts an id or a slug. actor is nil for anonymous reads.
	GetListing(ctx context.Context, actor *models.Actor, idOrSlug string) (*models.Listing, error)
	MyListings(ctx context.Context, actor models.Actor, criteria search.Criteria, page search.Page) ([]models.Listing, int64, error)
	SellerSummary(ctx context.Context, actor models.Actor) (*models.ListingsSummary, error)
}

// ModerationService defines the admin transitions and the audit trail
type ModerationService interface {
	Approve(ctx context.Context, actor models.Actor, listingID, note string) (*models.Listing, error)
	Reject(ctx context.Context, actor models.Actor, listingID, reason string) (*models.Listing, error)
	Suspend(ctx context.Context, actor models.Actor, listingID, reason string) (*models.Listing, error)
	Unsuspend(ctx context.Context, actor models.Actor, listingID, note string) (*models.Listing, error)

	// History lists audit entries newest first. An empty listingID lists all.
	History(ctx context.Context, actor models.Actor, listingID string, page store.Page) ([]models.ApprovalAction, int64, error)
	Stats(ctx context.Context, actor models.Actor) (*models.AdminStats, error)
}

// ReportService defines the listing flagging workflow
type ReportService interface {
	CreateReport(ctx context.Context, actor models.Actor, listingID string, req models.CreateReportRequest) (*models.Report, error)
	MarkReviewed(ctx context.Context, actor models.Actor, reportID string) (*models.Report, error)
	MarkClosed(ctx context.Context, actor models.Actor, reportID string) (*models.Report, error)
	ListReports(ctx context.Context, actor models.Actor, status models.ReportStatus, page store.Page) ([]models.Report, int64, error)
}

// InquiryService defines buyer to seller messaging
type InquiryService interface {
	CreateInquiry(ctx context.Context, actor models.Actor, listingID string, req models.CreateInquiryRequest) (*models.Inquiry, error)
	ListingInquiries(ctx context.Context, actor models.Actor, listingID string, page store.Page) ([]models.Inquiry, int64, error)
	SellerInquiries(ctx context.Context, actor models.Actor, page store.Page) ([]models.Inquiry, int64, error)
}

// SearchService defines listing discovery
type SearchService interface {
	Search(ctx context.Context, criteria search.Criteria, page search.Page) ([]models.Listing, int64, error)
	Latest(ctx context.Context, limit int) ([]models.Listing, error)
	AdminSearch(ctx context.Context, actor models.Actor, criteria search.Criteria, page search.Page) ([]models.Listing, int64, error)
}

// SearchCache stores public search pages. Get resolves key to a slot for the
// current cache generation and must treat a miss as (slot, false, nil). Set
// writes to that slot, so a page computed before an invalidation is never
// served after it.
type SearchCache interface {
	Get(ctx context.Context, key string, dest any) (slot string, hit bool, err error)
	Set(ctx context.Context, slot string, v any) error
}
