package services

import (
	"context"
	"testing"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/notify"
	"ceylonhomes-api-io/api/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInquiry(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	l := e.approvedListing(t, seller)

	i, err := e.inquiries.CreateInquiry(ctx, buyer, l.ID, models.CreateInquiryRequest{Message: " Is parking available? "})
	require.NoError(t, err)
	assert.Equal(t, "Is parking available?", i.Message)
	assert.Equal(t, seller.ID, i.ListingOwnerID)
	assert.Equal(t, l.Title, i.ListingTitle)
	assert.Equal(t, buyer.Email, i.BuyerEmail)
	assert.Equal(t, buyer.ID, i.BuyerName)
	assert.Contains(t, e.notifier.events(), notify.InquiryReceived)
}

func TestCreateInquiryOnHiddenListing(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	pending := e.createListing(t, seller)

	_, err := e.inquiries.CreateInquiry(ctx, buyer, pending.ID, models.CreateInquiryRequest{Message: "hello"})
	assert.True(t, errs.Is(err, errs.NotFound))

	_, err = e.inquiries.CreateInquiry(ctx, buyer, pending.ID, models.CreateInquiryRequest{Message: ""})
	assert.True(t, errs.Is(err, errs.Validation))
}

func TestInquiryListings(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	mine := e.approvedListing(t, seller)
	theirs := e.approvedListing(t, rival)
	for _, id := range []string{mine.ID, mine.ID, theirs.ID} {
		_, err := e.inquiries.CreateInquiry(ctx, buyer, id, models.CreateInquiryRequest{Message: "Viewing on Saturday?"})
		require.NoError(t, err)
	}

	items, total, err := e.inquiries.ListingInquiries(ctx, seller, mine.ID, store.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	_, _, err = e.inquiries.ListingInquiries(ctx, seller, theirs.ID, store.Page{})
	assert.True(t, errs.Is(err, errs.Unauthorized))

	_, total, err = e.inquiries.ListingInquiries(ctx, admin, theirs.ID, store.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	inbox, total, err := e.inquiries.SellerInquiries(ctx, rival, store.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, theirs.ID, inbox[0].ListingID)
}
