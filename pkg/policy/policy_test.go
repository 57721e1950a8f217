package policy

import (
	"testing"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestCanMutate(t *testing.T) {
	l := &models.Listing{OwnerID: "owner", Status: models.ListingStatusPending}

	assert.True(t, CanMutate(models.Actor{ID: "owner", Role: models.RoleSeller}, l))
	assert.True(t, CanMutate(models.Actor{ID: "boss", Role: models.RoleAdmin}, l))
	assert.False(t, CanMutate(models.Actor{ID: "other", Role: models.RoleSeller}, l))
	assert.False(t, CanMutate(models.Actor{}, &models.Listing{}))

	err := RequireMutate(models.Actor{ID: "other"}, l, "edit")
	assert.True(t, errs.Is(err, errs.Unauthorized))
}

func TestCanModerate(t *testing.T) {
	assert.True(t, CanModerate(models.Actor{Role: models.RoleAdmin}))
	assert.False(t, CanModerate(models.Actor{Role: models.RoleSeller}))
	assert.True(t, errs.Is(RequireModerate(models.Actor{Role: models.RoleUser}, "approve"), errs.Unauthorized))
	assert.NoError(t, RequireModerate(models.Actor{Role: models.RoleAdmin}, "approve"))
}

func TestCanView(t *testing.T) {
	pending := &models.Listing{OwnerID: "owner", Status: models.ListingStatusPending}
	approved := &models.Listing{OwnerID: "owner", Status: models.ListingStatusApproved}

	assert.True(t, CanView(nil, approved))
	assert.False(t, CanView(nil, pending))
	assert.False(t, CanView(&models.Actor{ID: "stranger"}, pending))
	assert.True(t, CanView(&models.Actor{ID: "owner"}, pending))
	assert.True(t, CanView(&models.Actor{ID: "x", Role: models.RoleAdmin}, pending))
}
