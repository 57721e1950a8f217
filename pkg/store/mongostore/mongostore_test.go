package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterPublicQuery(t *testing.T) {
	lo := 5000.0
	q := search.Public(search.Criteria{City: "Galle", MinPrice: &lo, Title: "ignored"}, search.Page{})

	filter, err := listingRepo{}.filter(context.Background(), q.Predicates)
	require.NoError(t, err)

	and, ok := filter["$and"].(bson.A)
	require.True(t, ok)
	assert.Contains(t, and, bson.M{"status": "APPROVED"})
	assert.Contains(t, and, bson.M{"city": "Galle"})
	assert.Contains(t, and, bson.M{"price": bson.M{"$gte": lo}})
	assert.Len(t, and, 3)
}

func TestFilterEscapesTitle(t *testing.T) {
	q := search.Admin(search.Criteria{Title: "2br (sea)"}, search.Page{})
	filter, err := listingRepo{}.filter(context.Background(), q.Predicates)
	require.NoError(t, err)

	and := filter["$and"].(bson.A)
	assert.Equal(t, bson.M{"title": bson.M{"$regex": `2br \(sea\)`, "$options": "i"}}, and[0])
}

func TestEmptyFilter(t *testing.T) {
	filter, err := listingRepo{}.filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, filter)
}

func TestSortBson(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}},
		sortBson(search.ParseSort("price_asc")))
	assert.Equal(t,
		bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		sortBson(search.ParseSort("")))
}

// TestListingVersionConflict needs a replica set, e.g.
// MONGO_TEST_URI=mongodb://localhost:27017/?replicaSet=rs0
func TestListingVersionConflict(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	s, err := Connect(ctx, uri, "ceylonhomes_test_"+models.NewID())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.db.Drop(ctx)
		_ = s.Close(ctx)
	})

	now := time.Now().UTC().Truncate(time.Millisecond)
	l := &models.Listing{ID: models.NewID(), OwnerID: "o", Title: "t", Status: models.ListingStatusPending, Version: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Reader().Listings().Insert(ctx, l))

	a := *l
	a.Status = models.ListingStatusApproved
	require.NoError(t, s.Reader().Listings().Update(ctx, &a, 1))

	b := *l
	b.Status = models.ListingStatusRejected
	assert.True(t, errs.Is(s.Reader().Listings().Update(ctx, &b, 1), errs.Conflict))

	max, err := s.Reader().Photos().MaxSortOrder(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, max)
}

func TestMigrationsSortedAndPending(t *testing.T) {
	mm := newMigrationManager(nil, []dataMigration{{Version: "0003"}, {Version: "0001"}, {Version: "0002"}})
	require.Len(t, mm.migrations, 3)
	assert.Equal(t, "0001", mm.migrations[0].Version)
	assert.Equal(t, "0003", mm.migrations[2].Version)

	pending := mm.Pending([]MigrationStatus{
		{Version: "0001", Success: true},
		{Version: "0002", Success: false},
	})
	assert.Equal(t, []string{"0002", "0003"}, pending)
}
