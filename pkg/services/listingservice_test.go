package services

import (
	"context"
	"testing"
	"time"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/lifecycle"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/notify"
	"ceylonhomes-api-io/api/pkg/search"
	"ceylonhomes-api-io/api/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateListingStartsPending(t *testing.T) {
	e := setupEnv(t)
	l := e.createListing(t, seller)

	assert.Equal(t, models.ListingStatusPending, l.Status)
	assert.Nil(t, l.RejectionReason)
	assert.Nil(t, l.ClosedAt)
	assert.Equal(t, seller.ID, l.OwnerID)
	assert.NotEmpty(t, l.Slug)

	stored := e.reload(t, l.ID)
	assert.Equal(t, models.ListingStatusPending, stored.Status)
	assert.Equal(t, []notify.Event{notify.ListingCreated}, e.notifier.events())
}

func TestCreateListingRequiresSellerAndValidPayload(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	_, err := e.listings.CreateListing(ctx, buyer, createRequest("Room", "Kandy", 100))
	assert.True(t, errs.Is(err, errs.Unauthorized))

	req := createRequest("", "Kandy", 100)
	_, err = e.listings.CreateListing(ctx, seller, req)
	assert.True(t, errs.Is(err, errs.Validation))
}

func TestEditApprovedListingReturnsToPending(t *testing.T) {
	e := setupEnv(t)
	l := e.approvedListing(t, seller)

	price := 90000.0
	edited, err := e.listings.EditListing(context.Background(), seller, l.ID, models.UpdateListingRequest{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, models.ListingStatusPending, edited.Status)
	assert.Equal(t, price, e.reload(t, l.ID).Price)
}

func TestEditKeepsStatusOutsideApproved(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	l := e.createListing(t, seller)
	_, err := e.moderation.Reject(ctx, admin, l.ID, "incomplete address")
	require.NoError(t, err)

	beds := 4
	edited, err := e.listings.EditListing(ctx, seller, l.ID, models.UpdateListingRequest{Bedrooms: &beds})
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusRejected, edited.Status)
	assert.Equal(t, "incomplete address", *edited.RejectionReason)
}

func TestEditRejectedResubmitsWhenConfigured(t *testing.T) {
	e := setupEnv(t, withEditPolicy(lifecycle.EditPolicy{ResubmitRejected: true}))
	ctx := context.Background()
	l := e.createListing(t, seller)
	_, err := e.moderation.Reject(ctx, admin, l.ID, "incomplete address")
	require.NoError(t, err)

	addr := "42/1 Galle Road, Dehiwala"
	edited, err := e.listings.EditListing(ctx, seller, l.ID, models.UpdateListingRequest{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusPending, edited.Status)
	assert.Nil(t, edited.RejectionReason)
}

func TestEditArchivedOrEmptyFails(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	l := e.createListing(t, seller)

	_, err := e.listings.EditListing(ctx, seller, l.ID, models.UpdateListingRequest{})
	assert.True(t, errs.Is(err, errs.Validation))

	_, err = e.listings.ArchiveListing(ctx, seller, l.ID)
	require.NoError(t, err)

	title := "New title"
	_, err = e.listings.EditListing(ctx, seller, l.ID, models.UpdateListingRequest{Title: &title})
	assert.True(t, errs.Is(err, errs.InvalidState))
}

func TestMarkSoldAndRentedOnlyFromApproved(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	pending := e.createListing(t, seller)
	_, err := e.listings.MarkSold(ctx, seller, pending.ID)
	assert.True(t, errs.Is(err, errs.InvalidState))
	_, err = e.listings.MarkRented(ctx, seller, pending.ID)
	assert.True(t, errs.Is(err, errs.InvalidState))

	approved := e.approvedListing(t, seller)
	before := time.Now().UTC()
	sold, err := e.listings.MarkSold(ctx, seller, approved.ID)
	after := time.Now().UTC()
	require.NoError(t, err)

	assert.Equal(t, models.ListingStatusSold, sold.Status)
	require.NotNil(t, sold.ClosedAt)
	assert.False(t, sold.ClosedAt.Before(before))
	assert.False(t, sold.ClosedAt.After(after))

	_, err = e.listings.MarkRented(ctx, seller, approved.ID)
	assert.True(t, errs.Is(err, errs.InvalidState))

	rented, err := e.listings.MarkRented(ctx, seller, e.approvedListing(t, seller).ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusRented, rented.Status)
}

func TestArchiveClearsClosedAt(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	l := e.approvedListing(t, seller)
	_, err := e.listings.MarkSold(ctx, seller, l.ID)
	require.NoError(t, err)

	archived, err := e.listings.ArchiveListing(ctx, seller, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusArchived, archived.Status)
	assert.Nil(t, archived.ClosedAt)
	assert.Len(t, e.auditTrail(t, l.ID), 1)

	_, err = e.listings.ArchiveListing(ctx, seller, l.ID)
	assert.True(t, errs.Is(err, errs.InvalidState))
}

func TestStrangerCannotMutate(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	l := e.approvedListing(t, seller)
	photos, err := e.listings.AddPhotos(ctx, seller, l.ID, uploads("front"))
	require.NoError(t, err)
	title := "Hijacked"

	checks := map[string]error{}
	_, checks["edit"] = e.listings.EditListing(ctx, rival, l.ID, models.UpdateListingRequest{Title: &title})
	badPrice := -5.0
	_, checks["edit invalid"] = e.listings.EditListing(ctx, rival, l.ID, models.UpdateListingRequest{Price: &badPrice})
	_, checks["edit empty"] = e.listings.EditListing(ctx, rival, l.ID, models.UpdateListingRequest{})
	checks["delete"] = e.listings.DeleteListing(ctx, rival, l.ID)
	_, checks["sold"] = e.listings.MarkSold(ctx, rival, l.ID)
	_, checks["rented"] = e.listings.MarkRented(ctx, buyer, l.ID)
	_, checks["archive"] = e.listings.ArchiveListing(ctx, rival, l.ID)
	_, checks["add photos"] = e.listings.AddPhotos(ctx, rival, l.ID, uploads("x"))
	checks["remove photo"] = e.listings.RemovePhoto(ctx, rival, photos[0].ID)

	for name, err := range checks {
		assert.True(t, errs.Is(err, errs.Unauthorized), name)
	}
	stored := e.reload(t, l.ID)
	assert.Equal(t, models.ListingStatusApproved, stored.Status)
	assert.Len(t, e.files.stored, 1)
}

func TestAdminCanMutateAnyListing(t *testing.T) {
	e := setupEnv(t)
	l := e.approvedListing(t, seller)

	archived, err := e.listings.ArchiveListing(context.Background(), admin, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusArchived, archived.Status)
}

func TestUnknownListingIsNotFound(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	_, err := e.listings.MarkSold(ctx, seller, "nope")
	assert.True(t, errs.Is(err, errs.NotFound))
	assert.True(t, errs.Is(e.listings.DeleteListing(ctx, seller, "nope"), errs.NotFound))
	_, err = e.listings.AddPhotos(ctx, seller, "nope", uploads("a"))
	assert.True(t, errs.Is(err, errs.NotFound))
	assert.True(t, errs.Is(e.listings.RemovePhoto(ctx, seller, "nope"), errs.NotFound))
}

func TestPhotoSortOrder(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	l := e.approvedListing(t, seller)

	first, err := e.listings.AddPhotos(ctx, seller, l.ID, uploads("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, sortOrders(first))

	second, err := e.listings.AddPhotos(ctx, seller, l.ID, uploads("c", "d", "e"))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, sortOrders(second))

	require.NoError(t, e.listings.RemovePhoto(ctx, seller, first[1].ID))
	assert.Equal(t, []string{first[1].Locator}, e.files.deleted)

	third, err := e.listings.AddPhotos(ctx, seller, l.ID, uploads("f"))
	require.NoError(t, err)
	assert.Equal(t, []int{5}, sortOrders(third))

	got, err := e.listings.GetListing(ctx, nil, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3, 4, 5}, sortOrders(got.Photos))

	// photo changes do not send an approved listing back to review
	assert.Equal(t, models.ListingStatusApproved, got.Status)
}

func TestConcurrentPhotoUploadsDoNotOverlap(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	l := e.createListing(t, seller)

	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, err := e.listings.AddPhotos(ctx, seller, l.ID, uploads("p", "q"))
			done <- err
		}()
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, <-done)
	}

	photos, err := e.store.Reader().Photos().ListByListing(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, sortOrders(photos))
}

func TestPhotosRejectedOnArchivedListing(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	l := e.createListing(t, seller)
	photos, err := e.listings.AddPhotos(ctx, seller, l.ID, uploads("a"))
	require.NoError(t, err)
	_, err = e.listings.ArchiveListing(ctx, seller, l.ID)
	require.NoError(t, err)

	_, err = e.listings.AddPhotos(ctx, seller, l.ID, uploads("b"))
	assert.True(t, errs.Is(err, errs.InvalidState))
	assert.True(t, errs.Is(e.listings.RemovePhoto(ctx, seller, photos[0].ID), errs.InvalidState))
	assert.Len(t, e.files.stored, 1)
}

func TestFailedUploadCleansUpStoredFiles(t *testing.T) {
	e := setupEnv(t)
	e.files.failOn = 2
	ctx := context.Background()
	l := e.createListing(t, seller)

	_, err := e.listings.AddPhotos(ctx, seller, l.ID, uploads("a", "b", "c"))
	require.Error(t, err)

	assert.Equal(t, e.files.stored, e.files.deleted)
	photos, err := e.store.Reader().Photos().ListByListing(ctx, l.ID)
	require.NoError(t, err)
	assert.Empty(t, photos)
}

func TestAddPhotosValidatesCount(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	l := e.createListing(t, seller)

	_, err := e.listings.AddPhotos(ctx, seller, l.ID, nil)
	assert.True(t, errs.Is(err, errs.Validation))

	many := make([]string, MaxPhotosPerUpload+1)
	for i := range many {
		many[i] = "p"
	}
	_, err = e.listings.AddPhotos(ctx, seller, l.ID, uploads(many...))
	assert.True(t, errs.Is(err, errs.Validation))
}

func TestDeleteListingCascades(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	l := e.approvedListing(t, seller)
	photos, err := e.listings.AddPhotos(ctx, seller, l.ID, uploads("a", "b"))
	require.NoError(t, err)
	_, err = e.inquiries.CreateInquiry(ctx, buyer, l.ID, models.CreateInquiryRequest{Message: "Still available?"})
	require.NoError(t, err)
	_, err = e.reports.CreateReport(ctx, buyer, l.ID, models.CreateReportRequest{Reason: "duplicate"})
	require.NoError(t, err)

	require.NoError(t, e.listings.DeleteListing(ctx, seller, l.ID))

	_, err = e.store.Reader().Listings().FindByID(ctx, l.ID)
	assert.True(t, errs.Is(err, errs.NotFound))
	left, err := e.store.Reader().Photos().ListByListing(ctx, l.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	_, total, err := e.store.Reader().Inquiries().ListByListing(ctx, l.ID, store.Page{})
	require.NoError(t, err)
	assert.Zero(t, total)

	assert.ElementsMatch(t, []string{photos[0].Locator, photos[1].Locator}, e.files.deleted)
	assert.Len(t, e.auditTrail(t, l.ID), 1)
	_, total, err = e.store.Reader().Reports().List(ctx, "", store.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestGetListingVisibility(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	pending := e.createListing(t, seller)
	approved := e.approvedListing(t, seller)

	_, err := e.listings.GetListing(ctx, nil, pending.ID)
	assert.True(t, errs.Is(err, errs.NotFound))
	_, err = e.listings.GetListing(ctx, &rival, pending.ID)
	assert.True(t, errs.Is(err, errs.NotFound))

	got, err := e.listings.GetListing(ctx, &seller, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)
	_, err = e.listings.GetListing(ctx, &admin, pending.ID)
	require.NoError(t, err)

	bySlug, err := e.listings.GetListing(ctx, nil, approved.Slug)
	require.NoError(t, err)
	assert.Equal(t, approved.ID, bySlug.ID)
}

func TestMyListingsAndSummary(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	e.createListing(t, seller)
	e.approvedListing(t, seller)
	e.createListing(t, rival)

	mine, total, err := e.listings.MyListings(ctx, seller, search.Criteria{}, search.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, l := range mine {
		assert.Equal(t, seller.ID, l.OwnerID)
	}

	_, total, err = e.listings.MyListings(ctx, seller, search.Criteria{Status: models.ListingStatusPending}, search.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	summary, err := e.listings.SellerSummary(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Total)
	assert.Equal(t, int64(1), summary.ByStatus[models.ListingStatusApproved])
	assert.Equal(t, int64(0), summary.ByStatus[models.ListingStatusSold])
}

func sortOrders(photos []models.ListingPhoto) []int {
	out := make([]int, 0, len(photos))
	for _, p := range photos {
		out = append(out, p.SortOrder)
	}
	return out
}
